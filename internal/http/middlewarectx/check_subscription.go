package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/response"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/sl"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/services/subscription"
)

// SubscriptionChecker reports whether a user currently has a usable
// subscription.
type SubscriptionChecker interface {
	RequireActive(ctx context.Context, userID int64) (*models.Subscription, error)
}

// SubscriptionStatusMiddleware returns middleware that gates premium
// routes behind an active subscription. It must run after
// JWTMiddleware.
func SubscriptionStatusMiddleware(log *slog.Logger, subService SubscriptionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SubscriptionStatusMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if _, err := subService.RequireActive(r.Context(), user.ID); err != nil {
				if errors.Is(err, subscription.ErrSubscriptionRequired) {
					log.Error("no active subscription, access denied")
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("active subscription required to access this feature"))
					return
				}
				log.Error("failed to check subscription status", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
