package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/jobsense/internal/config"
	"github.com/jonathan/jobsense/internal/db"
	"github.com/jonathan/jobsense/internal/embedding"
	"github.com/jonathan/jobsense/internal/ingestion"
	"github.com/jonathan/jobsense/internal/matching"
	"github.com/jonathan/jobsense/internal/resume"
	"github.com/jonathan/jobsense/internal/sources"
)

// app holds the wired service components shared by the subcommands.
type app struct {
	cfg          *config.Config
	database     *db.DB
	embedder     embedding.Client
	registry     *sources.Registry
	orchestrator *ingestion.Orchestrator
	engine       *matching.Engine
	processor    *resume.Processor
}

// newApp loads configuration and wires every component. The caller owns the
// database handle and must Close it.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL, cfg.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	gateway, err := embedding.NewGateway(cfg.EmbeddingServiceURL)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create embedding gateway: %w", err)
	}
	embedder := embedding.Retrying(gateway, embedding.RetryPolicy{
		MaxAttempts: cfg.EmbedRetryAttempts,
		BaseDelay:   500 * time.Millisecond,
	})

	remoteOK, err := sources.NewRemoteOKAdapter("")
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create RemoteOK adapter: %w", err)
	}
	wwr := sources.NewWeWorkRemotelyAdapter("")
	wwr.UseBrowser = cfg.UseBrowser
	registry := sources.NewRegistry(remoteOK, wwr)

	return &app{
		cfg:          cfg,
		database:     database,
		embedder:     embedder,
		registry:     registry,
		orchestrator: ingestion.NewOrchestrator(registry, database, embedder),
		engine: matching.NewEngine(database, matching.Config{
			EmbeddingDim:        database.EmbeddingDim(),
			SimilarityThreshold: &cfg.SimilarityThreshold,
		}),
		processor: resume.NewProcessor(embedder),
	}, nil
}

func (a *app) close() {
	a.database.Close()
}
