// Package creatorapi registers the application routes.
package creatorapi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/config"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/auth/login"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/auth/logout"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/auth/profile"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/auth/register"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/billing/webhook"
	subcancel "github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/subscription/cancel"
	subcreate "github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/subscription/create"
	sublist "github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/subscription/list"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/subscription/plans"
	tmplcreate "github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/template/create"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/template/generate"
	tmpllist "github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/template/list"
	tmplread "github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/template/read"
	tmplremove "github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/template/remove"
	tmplupdate "github.com/dubd59/Digital-Creator-Pro-OS/internal/http/handlers/template/update"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/http/middlewarectx"
	authservice "github.com/dubd59/Digital-Creator-Pro-OS/internal/services/auth"
	billingservice "github.com/dubd59/Digital-Creator-Pro-OS/internal/services/billing"
	subservice "github.com/dubd59/Digital-Creator-Pro-OS/internal/services/subscription"
	templateservice "github.com/dubd59/Digital-Creator-Pro-OS/internal/services/template"
)

// RegisterRoutes registers every route of the application.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	authService *authservice.AuthService,
	subscriptionService *subservice.SubscriptionService,
	templateService *templateservice.TemplateService,
	reconciler *billingservice.Reconciler,
) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/subscriptions/plans", plans.New(logger, subscriptionService).ServeHTTP)

		// Authenticated group
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/auth/logout", logout.New(logger, authService).ServeHTTP)
			r.Get("/auth/profile", profile.New(logger).ServeHTTP)
			r.Get("/subscriptions", sublist.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions", subcreate.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", subcancel.New(logger, subscriptionService).ServeHTTP)
			r.Get("/templates", tmpllist.New(logger, templateService).ServeHTTP)
			r.Post("/templates", tmplcreate.New(logger, templateService).ServeHTTP)
			r.Get("/templates/{id}", tmplread.New(logger, templateService).ServeHTTP)
			r.Put("/templates/{id}", tmplupdate.New(logger, templateService).ServeHTTP)
			r.Delete("/templates/{id}", tmplremove.New(logger, templateService).ServeHTTP)

			// Premium routes behind the subscription gate
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SubscriptionStatusMiddleware(logger, subscriptionService))
				r.Post("/templates/generate", generate.New(logger, templateService).ServeHTTP)
			})
		})

		// Webhook endpoint, authenticated by signature instead of a session
		r.Post("/webhooks/billing", webhook.New(logger, reconciler, cfg.BillingProvider.WebhookSecret).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
