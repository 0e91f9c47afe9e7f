package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/celestial/post-api/internal/cache"
	"github.com/celestial/post-api/internal/config"
	"github.com/celestial/post-api/internal/generation"
	"github.com/celestial/post-api/internal/platform/gemini"
	"github.com/celestial/post-api/internal/ratelimit"
	"github.com/celestial/post-api/internal/scraper"
	"github.com/celestial/post-api/internal/service"
	"github.com/celestial/post-api/internal/store"
	"github.com/celestial/post-api/internal/webcontext"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	contentStore store.ContentStore
	profileCache *cache.Gate
	limiter      generation.Limiter
	generator    generation.Generator
	postService  *service.PostService
}

// newApplication creates a new application instance with all
// dependencies initialized. Config and logger must be established
// before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Initialize the content store; the database URL scheme picks the
	// backend.
	var err error
	app.contentStore, err = openContentStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize content store: %w", err)
	}

	// Initialize the trained profile cache.
	fileStore, err := cache.NewFileStore(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize profile cache store: %w", err)
	}
	app.profileCache, err = cache.NewGate(
		fileStore,
		logger,
		cache.WithTTL(time.Duration(cfg.Cache.TTLHours)*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize profile cache: %w", err)
	}
	logger.Info("Profile cache initialized",
		"dir", cfg.Cache.Dir,
		"ttl_hours", cfg.Cache.TTLHours)

	// Initialize the rate limiter shared by all outbound LLM calls.
	app.limiter = ratelimit.NewTokenBucket(
		cfg.LLM.RequestsPerSecond,
		cfg.LLM.BurstCapacity,
	)

	// Create the tiered LLM generator.
	app.generator, err = gemini.NewTieredGenerator(
		ctx,
		logger.With(slog.String("component", "llm_generator")),
		cfg.LLM,
		app.limiter,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized",
		"primary_model", cfg.LLM.PrimaryModel,
		"fallback_model", cfg.LLM.FallbackModel)

	// The scraper and web provider are optional; the service degrades
	// without them.
	var postScraper scraper.Scraper
	if cfg.Scraper.Email != "" && cfg.Scraper.Password != "" {
		postScraper = scraper.NewRodScraper(scraper.Config{
			Email:      cfg.Scraper.Email,
			Password:   cfg.Scraper.Password,
			Headless:   cfg.Scraper.Headless,
			MaxScrolls: cfg.Scraper.MaxScrolls,
		}, logger)
	}

	var web webcontext.Provider
	if cfg.Search.SerpAPIKey != "" {
		web = webcontext.NewSerpClient(cfg.Search.SerpAPIKey, logger)
	}

	app.postService, err = service.NewPostService(
		logger,
		app.profileCache,
		app.contentStore,
		postScraper,
		app.generator,
		web,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create post service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.contentStore != nil {
		if err := app.contentStore.Close(); err != nil {
			app.logger.Error("Error closing content store", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
