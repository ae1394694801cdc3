package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sevigo/code-inspector/internal/config"
	"github.com/sevigo/code-inspector/internal/core"
	"github.com/sevigo/code-inspector/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and routes.
func NewRouter(cfg *config.Config, dispatcher core.JobDispatcher, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}` + "\n"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// reviews run synchronously, so the webhook route has no timeout middleware;
	// the job enforces request_timeout itself
	webhookHandler := handler.NewWebhookHandler(cfg, dispatcher, logger)
	r.Post("/webhook/github", webhookHandler.Handle)

	return r
}
