// Package main implements the entry point for the post generation API
// server, which turns a scraped content history and a trained writing
// profile into LinkedIn posts via Gemini.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/celestial/post-api/internal/config"
	"github.com/celestial/post-api/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to build application", "error", err)
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		appLogger.Error("Server exited with error", "error", err)
		log.Fatalf("Server exited with error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_ttl_hours", cfg.Cache.TTLHours)
	if cfg.Search.SerpAPIKey == "" {
		appLogger.Debug("SerpAPI key not configured, web context disabled")
	}
	if cfg.Scraper.Email == "" {
		appLogger.Debug("Scraper credentials not configured, cache rebuilds will fail")
	}

	return cfg, appLogger, nil
}
