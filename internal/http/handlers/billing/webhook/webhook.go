// Package webhook implements the HTTP endpoint receiving billing
// provider event deliveries.
//
// The handler verifies the HMAC signature over the raw body before
// anything else touches it, then hands the verified payload to the
// reconciler. A 500 response makes the provider redeliver; replays are
// detected downstream and acknowledged.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/response"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/sl"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/metrics"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/services/billing"
)

// SignatureHeader carries the provider's base64 HMAC-SHA256 of the raw
// request body.
const SignatureHeader = "X-Billing-Signature"

// Service describes the reconciler applying verified events.
type Service interface {
	Process(ctx context.Context, raw []byte) error
}

// Handler serves billing webhook deliveries.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// New creates a Handler with the given logger, reconciler and shared
// webhook secret.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// verifySignature checks the base64 HMAC-SHA256 of the raw body in
// constant time.
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP godoc
// @Summary Billing provider webhook
// @Description Receives provider event deliveries. The body must be signed with the shared webhook secret.
// @Tags Billing
// @Accept json
// @Produce json
// @Param X-Billing-Signature header string true "Base64 HMAC-SHA256 of the raw body"
// @Success 200 {object} map[string]bool "Event acknowledged"
// @Failure 400 {object} response.ErrorResponse "Invalid signature or malformed payload"
// @Failure 500 {object} response.ErrorResponse "Processing failed, provider should redeliver"
// @Router /webhooks/billing [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("could not read request body"))
		return
	}
	defer func() { _ = r.Body.Close() }()

	signature := r.Header.Get(SignatureHeader)
	if signature == "" || !h.verifySignature(body, signature) {
		metrics.WebhookRejected.Inc()
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid webhook signature"))
		return
	}

	if err := h.service.Process(r.Context(), body); err != nil {
		if errors.Is(err, billing.ErrBadPayload) {
			log.Error("malformed webhook payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("malformed event payload"))
			return
		}
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process event"))
		return
	}

	log.Info("webhook processed")
	render.JSON(w, r, map[string]bool{"received": true})
}
