package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/celestial/post-api/internal/config"
	"github.com/celestial/post-api/internal/platform/postgres"
	"github.com/celestial/post-api/internal/platform/sqlite"
	"github.com/celestial/post-api/internal/store"
)

// openContentStore opens the content store named by the database URL.
// postgres:// and postgresql:// URLs connect to PostgreSQL and run
// pending migrations; any other value is treated as a SQLite file path.
func openContentStore(cfg *config.Config, logger *slog.Logger) (store.ContentStore, error) {
	url := cfg.Database.URL
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		db, err := openPostgres(url, logger)
		if err != nil {
			return nil, err
		}
		if err := runMigrations(db, logger); err != nil {
			closeErr := db.Close()
			if closeErr != nil {
				logger.Error("Error closing database after migration failure", "error", closeErr)
			}
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return postgres.NewContentStore(db, logger), nil
	}

	contentStore, err := sqlite.NewContentStore(url, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store at %q: %w", url, err)
	}
	logger.Info("Content store opened", "backend", "sqlite", "path", url)
	return contentStore, nil
}

// openPostgres establishes a pooled PostgreSQL connection and verifies
// it with a ping.
func openPostgres(url string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			logger.Error("Error closing database after failed ping", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Content store opened", "backend", "postgres")
	return db, nil
}
