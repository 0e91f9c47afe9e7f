package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestial/post-api/internal/domain"
)

func newTestStore(t *testing.T) *ContentStore {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewContentStore(filepath.Join(t.TempDir(), "content.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRecord(t *testing.T, content string, scrapedAt time.Time) *domain.ContentRecord {
	t.Helper()

	rec, err := domain.NewContentRecord(content, "https://example.com/post", 10, 2, 1)
	require.NoError(t, err)
	rec.ScrapedAt = scrapedAt
	return rec
}

func TestInsertAndRecent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []*domain.ContentRecord{
		testRecord(t, "first post about shipping", base),
		testRecord(t, "second post about hiring", base.Add(time.Hour)),
		testRecord(t, "third post about growth", base.Add(2*time.Hour)),
	}

	inserted, skipped, err := s.Insert(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)
	assert.Equal(t, 0, skipped)

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third post about growth", recent[0].Content)
	assert.Equal(t, "second post about hiring", recent[1].Content)
	assert.Equal(t, 10, recent[0].Likes)
	assert.Equal(t, "https://example.com/post", recent[0].SourceURL)
}

func TestInsertSkipsDuplicateContent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := []*domain.ContentRecord{testRecord(t, "a post worth repeating", now)}
	inserted, skipped, err := s.Insert(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 0, skipped)

	// Same content under a fresh ID still counts as a duplicate.
	again := []*domain.ContentRecord{testRecord(t, "a post worth repeating", now.Add(time.Minute))}
	inserted, skipped, err = s.Insert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 1, skipped)

	recent, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestInsertRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	bad := &domain.ContentRecord{}
	_, _, err := s.Insert(context.Background(), []*domain.ContentRecord{bad})
	assert.Error(t, err)
}

func TestRecentEmptyStore(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	recent, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
