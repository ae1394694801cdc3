// Package app holds the long-running Code Inspector service: the HTTP server
// and the review worker pool behind it.
package app

import (
	"context"
	"log/slog"

	"github.com/sevigo/code-inspector/internal/config"
	"github.com/sevigo/code-inspector/internal/core"
	"github.com/sevigo/code-inspector/internal/server"
	"github.com/sevigo/code-inspector/internal/storage"
)

// App holds the main application components.
type App struct {
	Cfg        *config.Config
	Store      storage.Store
	server     *server.Server
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewApp assembles the service from its already-built components.
func NewApp(cfg *config.Config, srv *server.Server, dispatcher core.JobDispatcher, store storage.Store, logger *slog.Logger) *App {
	return &App{
		Cfg:        cfg,
		Store:      store,
		server:     srv,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.logger.Info("starting Code Inspector",
		"server_port", a.Cfg.Server.Port,
		"max_workers", a.Cfg.MaxWorkers,
		"llm_provider", a.Cfg.AI.LLMProvider,
		"database", a.Cfg.Database.Driver,
	)
	if a.Cfg.GitHub.WebhookSecret == "" {
		a.logger.Warn("no webhook secret configured: signature verification is DISABLED, use only for local development")
	}

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly. In-flight reviews finish before
// the dispatcher returns; the database is closed by the cleanup function of
// the injector.
func (a *App) Stop(ctx context.Context) error {
	a.logger.Info("shutting down Code Inspector services")

	// Stop the HTTP server first to prevent new incoming requests.
	serverErr := a.server.Stop(ctx)
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.dispatcher.Stop()

	if serverErr != nil {
		return serverErr
	}
	a.logger.Info("Code Inspector stopped successfully")
	return nil
}
