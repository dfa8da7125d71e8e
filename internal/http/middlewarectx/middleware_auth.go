// Package middlewarectx contains HTTP middleware that authenticates
// requests and enriches the request context.
//
// JWTMiddleware checks the Authorization header for a bearer token,
// validates it through the auth service and, on success, stores the
// authenticated user in the request context for downstream handlers.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/response"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/sl"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/services/auth"
)

// Key is the type for request context keys.
type Key string

// User is the context key under which the authenticated user is stored.
const User Key = "user"

// AuthService validates a session token and resolves its user.
type AuthService interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware returns middleware that checks the bearer token in the
// Authorization header.
//
// A missing or malformed header yields 401 Unauthorized. A token that
// fails signature checks or has no live session yields 403 Forbidden.
func JWTMiddleware(authService AuthService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.Authenticate(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrSessionExpired) {
					log.Error("invalid or expired token", sl.Err(err))
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("invalid or expired token"))
					return
				}
				log.Error("failed to authenticate request", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user set by JWTMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok && user != nil
}
