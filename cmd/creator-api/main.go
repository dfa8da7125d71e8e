// Package main Digital Creator Pro OS API
//
// @title           Digital Creator Pro OS API
// @version         1.0
// @description     Backend API for the creator operations dashboard: accounts, sessions, subscriptions, billing webhooks and templates.

// @contact.name   API Support
// @contact.email  support@digitalcreatorpro.example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/dubd59/Digital-Creator-Pro-OS/docs"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/app/creatorapi"
	"github.com/dubd59/Digital-Creator-Pro-OS/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting creator-api", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := creatorapi.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("creator-api stopped gracefully")
}
