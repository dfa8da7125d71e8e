// Package logout implements the HTTP handler for closing a session.
package logout

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/response"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/sl"
)

// Service describes the business logic for closing a session.
type Service interface {
	Logout(ctx context.Context, token string) error
}

// Handler serves logout requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a Handler with the given logger and service.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Sign out
// @Description Revokes the session token. Revoking an already revoked token succeeds.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Session closed"
// @Failure 401 {object} response.ErrorResponse "Missing authorization header"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tokenStr := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	if err := h.service.Logout(r.Context(), tokenStr); err != nil {
		log.Error("failed to logout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not logout"))
		return
	}

	log.Info("session closed")
	render.JSON(w, r, response.OK())
}
