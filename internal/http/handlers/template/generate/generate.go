// Package generate implements the HTTP handler for AI-assisted
// template generation. The route is gated behind an active
// subscription.
package generate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/response"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/sl"
)

// Request is the generation request body.
type Request struct {
	Prompt   string `json:"prompt" validate:"required"`
	Purpose  string `json:"purpose" validate:"required"`
	Audience string `json:"audience" validate:"required"`
	Layout   string `json:"layout" validate:"required"`
}

// Service describes the business logic for generating template content.
type Service interface {
	Generate(ctx context.Context, prompt, purpose, audience, layout string) (string, error)
}

// Handler serves template generation requests.
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
// @Summary Generate template content
// @Description Produces template content from the brief via the LLM. Requires an active subscription.
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Generation brief"
// @Success 200 {object} response.Response "Generated content"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "User not authenticated"
// @Failure 403 {object} response.ErrorResponse "Active subscription required"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "LLM or server error"
// @Router /templates/generate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.template.generate"
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

	content, err := h.service.Generate(r.Context(), req.Prompt, req.Purpose, req.Audience, req.Layout)
	if err != nil {
		log.Error("failed to generate template", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate template"))
		return
	}

	log.Info("template content generated")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"content": content,
	}))
}
