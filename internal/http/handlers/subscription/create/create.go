// Package create implements the HTTP handler for starting a new
// subscription.
//
// Handler validates the request, calls the subscription service, which
// drives the billing provider, and returns the local record.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/middlewarectx"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/response"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/sl"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/services/subscription"
)

// Request is the subscription creation request body.
type Request struct {
	PlanName        string `json:"plan_name" validate:"required"`
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
}

// Service describes the business logic for starting a subscription.
type Service interface {
	Create(ctx context.Context, user *models.User, planName, paymentMethodID string) (*models.Subscription, error)
}

// Handler serves subscription creation requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Start a subscription
// @Description Creates a subscription with the billing provider and stores the local record.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Plan and payment method"
// @Success 201 {object} response.Response "Created subscription"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or unknown plan"
// @Failure 401 {object} response.ErrorResponse "User not authenticated"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Server or provider error"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.service.Create(r.Context(), user, req.PlanName, req.PaymentMethodID)
	if err != nil {
		if errors.Is(err, subscription.ErrPlanNotFound) {
			log.Error("unknown plan", slog.String("plan", req.PlanName))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown plan"))
			return
		}
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
