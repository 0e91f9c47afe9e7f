package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/celestial/post-api/internal/cache"
	"github.com/celestial/post-api/internal/config"
	"github.com/celestial/post-api/internal/domain"
	"github.com/celestial/post-api/internal/platform/gemini"
	"github.com/celestial/post-api/internal/platform/sqlite"
	"github.com/celestial/post-api/internal/ratelimit"
	"github.com/celestial/post-api/internal/service"
	"github.com/celestial/post-api/internal/webcontext"
)

// generate wires the minimal dependency set for a one-shot generation
// and returns the normalized post text.
func generate(ctx context.Context, idea, founder, company string) (string, error) {
	// Validate before touching config or the network so a blank idea
	// fails fast.
	req, err := domain.NewGenerationRequest(idea, founder, company)
	if err != nil {
		return "", err
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}

	// Keep structured logs on stderr so stdout carries only the post.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	contentStore, err := sqlite.NewContentStore(cfg.Database.URL, logger)
	if err != nil {
		return "", fmt.Errorf("failed to open content store: %w", err)
	}
	defer func() { _ = contentStore.Close() }()

	fileStore, err := cache.NewFileStore(cfg.Cache.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to open profile cache: %w", err)
	}
	gate, err := cache.NewGate(fileStore, logger,
		cache.WithTTL(time.Duration(cfg.Cache.TTLHours)*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to initialize profile cache: %w", err)
	}

	limiter := ratelimit.NewTokenBucket(cfg.LLM.RequestsPerSecond, cfg.LLM.BurstCapacity)
	generator, err := gemini.NewTieredGenerator(
		ctx,
		logger.With(slog.String("component", "llm_generator")),
		cfg.LLM,
		limiter,
	)
	if err != nil {
		return "", fmt.Errorf("failed to initialize LLM generator: %w", err)
	}

	var web webcontext.Provider
	if cfg.Search.SerpAPIKey != "" {
		web = webcontext.NewSerpClient(cfg.Search.SerpAPIKey, logger)
	}

	svc, err := service.NewPostService(logger, gate, contentStore, nil, generator, web)
	if err != nil {
		return "", fmt.Errorf("failed to create post service: %w", err)
	}

	return svc.GenerateDirect(ctx, req)
}
