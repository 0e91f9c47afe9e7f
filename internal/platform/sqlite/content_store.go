// Package sqlite implements the content record store on an embedded
// SQLite database. It is the default backend: a single file, no server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/celestial/post-api/internal/domain"
	"github.com/celestial/post-api/internal/store"
)

const createContentTable = `
CREATE TABLE IF NOT EXISTS content_records (
	id TEXT PRIMARY KEY,
	content TEXT NOT NULL UNIQUE,
	likes INTEGER NOT NULL DEFAULT 0,
	comments INTEGER NOT NULL DEFAULT 0,
	reposts INTEGER NOT NULL DEFAULT 0,
	source_url TEXT NOT NULL DEFAULT '',
	scraped_at TIMESTAMP NOT NULL
);
`

// ContentStore is a store.ContentStore backed by SQLite.
type ContentStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.ContentStore = (*ContentStore)(nil)

// NewContentStore opens (creating if needed) the database at dbPath and
// ensures the content_records table exists.
func NewContentStore(dbPath string, logger *slog.Logger) (*ContentStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %v", store.ErrStoreIO, err)
	}

	if _, err := db.Exec(createContentTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate sqlite db: %v", store.ErrStoreIO, err)
	}

	return &ContentStore{db: db, logger: logger}, nil
}

// Insert stores records whose content text is not already present.
// Duplicates count as skipped, matching the upsert-if-new contract.
func (s *ContentStore) Insert(ctx context.Context, records []*domain.ContentRecord) (int, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: begin insert: %v", store.ErrStoreIO, err)
	}
	defer func() { _ = tx.Rollback() }()

	var inserted, skipped int
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return 0, 0, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO content_records (id, content, likes, comments, reposts, source_url, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(content) DO NOTHING`,
			rec.ID.String(), rec.Content, rec.Likes, rec.Comments, rec.Reposts,
			rec.SourceURL, rec.ScrapedAt.UTC(),
		)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: insert record: %v", store.ErrStoreIO, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("%w: rows affected: %v", store.ErrStoreIO, err)
		}
		if n == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("%w: commit insert: %v", store.ErrStoreIO, err)
	}

	s.logger.DebugContext(ctx, "content records inserted",
		"inserted", inserted,
		"skipped", skipped)

	return inserted, skipped, nil
}

// Recent returns up to limit records, newest first.
func (s *ContentStore) Recent(ctx context.Context, limit int) ([]*domain.ContentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, likes, comments, reposts, source_url, scraped_at
		 FROM content_records
		 ORDER BY scraped_at DESC, id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query recent: %v", store.ErrStoreIO, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Close closes the underlying database.
func (s *ContentStore) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]*domain.ContentRecord, error) {
	var records []*domain.ContentRecord
	for rows.Next() {
		var rec domain.ContentRecord
		var id string
		if err := rows.Scan(&id, &rec.Content, &rec.Likes, &rec.Comments,
			&rec.Reposts, &rec.SourceURL, &rec.ScrapedAt); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", store.ErrStoreIO, err)
		}
		if err := rec.ID.UnmarshalText([]byte(id)); err != nil {
			return nil, fmt.Errorf("%w: parse record ID: %v", store.ErrStoreIO, err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %v", store.ErrStoreIO, err)
	}
	return records, nil
}
