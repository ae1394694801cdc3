//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/code-inspector/internal/app"
	"github.com/sevigo/code-inspector/internal/config"
	"github.com/sevigo/code-inspector/internal/db"
	"github.com/sevigo/code-inspector/internal/jobs"
	"github.com/sevigo/code-inspector/internal/llm"
	"github.com/sevigo/code-inspector/internal/storage"
)

func InitializeApp(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {
	wire.Build(AppSet)
	return &app.App{}, nil, nil
}

func InitializeReviewJob(ctx context.Context, cfg *config.Config) (*jobs.ReviewJob, func(), error) {
	wire.Build(ReviewSet)
	return &jobs.ReviewJob{}, nil, nil
}

func InitializeAgent(ctx context.Context, cfg *config.Config, apiKey ExplicitKey) (*llm.Agent, func(), error) {
	wire.Build(llm.NewPromptManager, llm.NewAgent, provideExplicitGenerator, provideModelProvider, provideLogger)
	return &llm.Agent{}, nil, nil
}

func InitializeStore(cfg *config.Config) (storage.Store, func(), error) {
	wire.Build(db.NewDatabase, storage.NewStore, provideDBConfig)
	return nil, nil, nil
}
