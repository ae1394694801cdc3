// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/sevigo/code-inspector/internal/app"
	"github.com/sevigo/code-inspector/internal/config"
	"github.com/sevigo/code-inspector/internal/db"
	"github.com/sevigo/code-inspector/internal/github"
	"github.com/sevigo/code-inspector/internal/jobs"
	"github.com/sevigo/code-inspector/internal/llm"
	"github.com/sevigo/code-inspector/internal/quality"
	"github.com/sevigo/code-inspector/internal/server"
	"github.com/sevigo/code-inspector/internal/storage"
)

// InitializeApp creates and wires all dependencies of the webhook service.
func InitializeApp(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {
	slogLogger, loggerCleanup := provideLogger(cfg)

	dbConfig := provideDBConfig(cfg)
	database, dbCleanup, err := db.NewDatabase(dbConfig)
	if err != nil {
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	store := storage.NewStore(database)

	generator, err := provideGenerator(ctx, cfg, slogLogger)
	if err != nil {
		dbCleanup()
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create generator: %w", err)
	}
	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		dbCleanup()
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}
	agent := llm.NewAgent(generator, promptMgr, provideModelProvider(), slogLogger)

	checker := quality.NewChecker(cfg, slogLogger)
	factory := github.NewPullRequestClientFactory(slogLogger)
	reviewJob := jobs.NewReviewJob(cfg, factory, checker, agent, store, slogLogger)
	dispatcher := provideDispatcher(reviewJob, cfg, slogLogger)
	srv := server.NewServer(cfg, dispatcher, slogLogger)
	application := app.NewApp(cfg, srv, dispatcher, store, slogLogger)

	return application, func() {
		dbCleanup()
		loggerCleanup()
	}, nil
}

// InitializeReviewJob wires a review job with its store, checker and agent.
func InitializeReviewJob(ctx context.Context, cfg *config.Config) (*jobs.ReviewJob, func(), error) {
	slogLogger, loggerCleanup := provideLogger(cfg)

	dbConfig := provideDBConfig(cfg)
	database, dbCleanup, err := db.NewDatabase(dbConfig)
	if err != nil {
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	store := storage.NewStore(database)

	generator, err := provideGenerator(ctx, cfg, slogLogger)
	if err != nil {
		dbCleanup()
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create generator: %w", err)
	}
	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		dbCleanup()
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}
	agent := llm.NewAgent(generator, promptMgr, provideModelProvider(), slogLogger)

	checker := quality.NewChecker(cfg, slogLogger)
	factory := github.NewPullRequestClientFactory(slogLogger)
	reviewJob := jobs.NewReviewJob(cfg, factory, checker, agent, store, slogLogger)

	return reviewJob, func() {
		dbCleanup()
		loggerCleanup()
	}, nil
}

// InitializeAgent wires the generation agent alone; it needs no database.
// A non-empty apiKey takes precedence over the configured credential.
func InitializeAgent(ctx context.Context, cfg *config.Config, apiKey ExplicitKey) (*llm.Agent, func(), error) {
	slogLogger, loggerCleanup := provideLogger(cfg)

	generator, err := provideExplicitGenerator(ctx, cfg, apiKey, slogLogger)
	if err != nil {
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create generator: %w", err)
	}
	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}
	agent := llm.NewAgent(generator, promptMgr, provideModelProvider(), slogLogger)
	return agent, loggerCleanup, nil
}

// InitializeStore opens the outcome store.
func InitializeStore(cfg *config.Config) (storage.Store, func(), error) {
	database, dbCleanup, err := db.NewDatabase(provideDBConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return storage.NewStore(database), dbCleanup, nil
}
