// Package creatorapi assembles and runs the HTTP API: storage,
// migrations, cache, the notification broker and every service behind
// the router.
package creatorapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/billingprovider"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/cache"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/config"
	jwtlib "github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/jwt"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/rabbitmq"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/lib/sl"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/llm"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/migrations"
	authservice "github.com/dubd59/Digital-Creator-Pro-OS/internal/services/auth"
	billingservice "github.com/dubd59/Digital-Creator-Pro-OS/internal/services/billing"
	subservice "github.com/dubd59/Digital-Creator-Pro-OS/internal/services/subscription"
	templateservice "github.com/dubd59/Digital-Creator-Pro-OS/internal/services/template"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/storage/repository"
)

// App holds the assembled HTTP server and the resources it owns.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
}

// New builds the application: connects storage, runs migrations, wires
// the cache, the broker and the services, and registers the routes.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	if removed, err := db.DeleteExpiredSessionTokens(ctx); err != nil {
		logger.Warn("failed to clean up expired sessions", sl.Err(err))
	} else if removed > 0 {
		logger.Info("expired sessions removed", slog.Int64("count", removed))
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	amqpChannel, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetBillingQueues(cfg.RabbitMQ.ReceiptQueue))
	if err != nil {
		return nil, err
	}

	jwtMaker := jwtlib.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
	providerClient := billingprovider.NewClient(cfg.BillingProvider.APIURL, cfg.BillingProvider.APIKey)
	llmClient := llm.NewClient(cfg.LLM.APIURL, cfg.LLM.APIKey, cfg.LLM.Model)

	authService := authservice.NewAuthService(db, jwtMaker, cfg.JWTToken.TokenTTL)
	subscriptionService := subservice.NewSubscriptionService(db, providerClient, cacheRedis, logger)
	templateService := templateservice.NewTemplateService(db, llmClient, logger)
	notifier := billingservice.NewReceiptNotifier(amqpChannel, "receipt")
	reconciler := billingservice.NewReconciler(db, notifier, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, subscriptionService, templateService, reconciler)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   amqpConn,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled,
// then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		_ = a.amqp.Close()
		return err
	}
}
