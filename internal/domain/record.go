package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContentRecord-specific validation errors
var (
	// ErrRecordIDEmpty is returned when a content record ID is empty or nil.
	ErrRecordIDEmpty = errors.New("content record ID cannot be empty")

	// ErrRecordContentEmpty is returned when a content record has no text.
	ErrRecordContentEmpty = errors.New("content record text cannot be empty")
)

// ContentRecord represents a single scraped post from a profile's activity
// feed, together with its engagement counts. Records are keyed on their
// content text in the store; re-inserting the same text is a no-op.
type ContentRecord struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	Reposts   int       `json:"reposts"`
	SourceURL string    `json:"source_url"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// NewContentRecord creates a ContentRecord with a fresh UUID and the
// current scrape timestamp. Returns an error if validation fails.
func NewContentRecord(content, sourceURL string, likes, comments, reposts int) (*ContentRecord, error) {
	rec := &ContentRecord{
		ID:        uuid.New(),
		Content:   content,
		Likes:     likes,
		Comments:  comments,
		Reposts:   reposts,
		SourceURL: sourceURL,
		ScrapedAt: time.Now().UTC(),
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks that the record satisfies its invariants.
func (r *ContentRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrRecordIDEmpty
	}
	if r.Content == "" {
		return ErrRecordContentEmpty
	}
	return nil
}
