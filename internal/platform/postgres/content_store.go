// Package postgres implements the content record store on PostgreSQL,
// for deployments that outgrow the embedded SQLite file.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/celestial/post-api/internal/domain"
	"github.com/celestial/post-api/internal/store"
)

// uniqueViolationCode is the PostgreSQL error code for a unique
// constraint violation.
const uniqueViolationCode = "23505"

// ContentStore is a store.ContentStore backed by PostgreSQL.
type ContentStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.ContentStore = (*ContentStore)(nil)

// NewContentStore creates a PostgreSQL implementation of the
// ContentStore interface. The connection is initialized and managed by
// the caller; schema migrations run separately at startup. If logger is
// nil, the default logger is used.
func NewContentStore(db *sql.DB, logger *slog.Logger) *ContentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// Insert stores records whose content text is not already present.
// Duplicates count as skipped rather than failing the batch.
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
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (content) DO NOTHING`,
			rec.ID, rec.Content, rec.Likes, rec.Comments, rec.Reposts,
			rec.SourceURL, rec.ScrapedAt.UTC(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				skipped++
				continue
			}
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
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query recent: %v", store.ErrStoreIO, err)
	}
	defer rows.Close()

	var records []*domain.ContentRecord
	for rows.Next() {
		var rec domain.ContentRecord
		if err := rows.Scan(&rec.ID, &rec.Content, &rec.Likes, &rec.Comments,
			&rec.Reposts, &rec.SourceURL, &rec.ScrapedAt); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", store.ErrStoreIO, err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %v", store.ErrStoreIO, err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *ContentStore) Close() error {
	return s.db.Close()
}
