package store

import (
	"context"

	"github.com/celestial/post-api/internal/domain"
)

// ContentStore persists scraped content records. Records are keyed on
// their content text: inserting a record whose text is already stored is
// a skip, not an error.
type ContentStore interface {
	// Insert stores the given records, skipping any whose content text is
	// already present. Returns how many were newly inserted and how many
	// were skipped as duplicates.
	Insert(ctx context.Context, records []*domain.ContentRecord) (inserted, skipped int, err error)

	// Recent returns up to limit records, newest first by scrape time.
	Recent(ctx context.Context, limit int) ([]*domain.ContentRecord, error)

	// Close releases the underlying database resources.
	Close() error
}
