package wire

import (
	"context"
	"log/slog"

	"github.com/google/wire"

	"github.com/sevigo/code-inspector/internal/app"
	"github.com/sevigo/code-inspector/internal/config"
	"github.com/sevigo/code-inspector/internal/core"
	"github.com/sevigo/code-inspector/internal/db"
	"github.com/sevigo/code-inspector/internal/github"
	"github.com/sevigo/code-inspector/internal/jobs"
	"github.com/sevigo/code-inspector/internal/llm"
	"github.com/sevigo/code-inspector/internal/logger"
	"github.com/sevigo/code-inspector/internal/quality"
	"github.com/sevigo/code-inspector/internal/server"
	"github.com/sevigo/code-inspector/internal/storage"
)

// AgentSet builds the generation agent.
var AgentSet = wire.NewSet(
	llm.NewPromptManager,
	llm.NewAgent,
	provideGenerator,
	provideModelProvider,
)

// ReviewSet builds a review job and everything it needs.
var ReviewSet = wire.NewSet(
	AgentSet,
	db.NewDatabase,
	storage.NewStore,
	quality.NewChecker,
	github.NewPullRequestClientFactory,
	jobs.NewReviewJob,
	provideDBConfig,
	provideLogger,
)

// AppSet builds the webhook service.
var AppSet = wire.NewSet(
	ReviewSet,
	app.NewApp,
	server.NewServer,
	provideDispatcher,
)

func provideLogger(cfg *config.Config) (*slog.Logger, func()) {
	w, closeFn := cfg.Logging.Writer()
	l := logger.NewLogger(cfg.Logging, w)
	slog.SetDefault(l)
	return l, closeFn
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return &cfg.Database
}

func provideGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llm.Generator, error) {
	return llm.NewGenerator(ctx, cfg.AI, "", logger)
}

// ExplicitKey is a model credential given on the command line.
type ExplicitKey string

func provideExplicitGenerator(ctx context.Context, cfg *config.Config, key ExplicitKey, logger *slog.Logger) (llm.Generator, error) {
	return llm.NewGenerator(ctx, cfg.AI, string(key), logger)
}

func provideModelProvider() llm.ModelProvider {
	return llm.DefaultProvider
}

func provideDispatcher(job *jobs.ReviewJob, cfg *config.Config, logger *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(job, cfg.MaxWorkers, logger)
}
