// Package profile implements the HTTP handler returning the current
// user's profile.
package profile

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/middlewarectx"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/response"
)

// Handler serves profile requests.
type Handler struct {
	log *slog.Logger
}

// New creates a Handler with the given logger.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Current user profile
// @Description Returns the profile of the authenticated user.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "User profile"
// @Failure 401 {object} response.ErrorResponse "User not authenticated"
// @Router /auth/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
