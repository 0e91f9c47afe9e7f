package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/celestial/post-api/internal/domain"
)

// Store errors.
var (
	// ErrEntryNotFound is returned when no artifact exists for a key.
	ErrEntryNotFound = errors.New("cache entry not found")

	// ErrStoreIO wraps filesystem failures while reading or writing an
	// artifact. Never silently swallowed; always surfaced to the caller.
	ErrStoreIO = errors.New("cache store I/O failure")
)

// Entry is the persisted cache artifact for one normalized profile key.
// Unknown JSON fields are ignored on load, so the schema can grow without
// invalidating artifacts written by older builds.
type Entry struct {
	Key       string                 `json:"key"`
	Profile   *domain.TrainedProfile `json:"profile"`
	WrittenAt time.Time              `json:"written_at"`
}

// FileStore keeps one JSON artifact per normalized key inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the cache directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create cache dir: %v", ErrStoreIO, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the artifact for key. Returns ErrEntryNotFound when absent.
func (s *FileStore) Load(key string) (*Entry, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStoreIO, key, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStoreIO, key, err)
	}

	return &entry, nil
}

// Write persists an artifact for key, fully replacing any prior entry.
// The write is atomic from a reader's perspective: the JSON is written to a
// temp file in the same directory and renamed over the destination.
func (s *FileStore) Write(key string, profile *domain.TrainedProfile, writtenAt time.Time) error {
	entry := Entry{Key: key, Profile: profile, WrittenAt: writtenAt.UTC()}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStoreIO, key, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", ErrStoreIO, key, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write temp for %s: %v", ErrStoreIO, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close temp for %s: %v", ErrStoreIO, key, err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %v", ErrStoreIO, key, err)
	}

	return nil
}

// Delete removes the artifact for key. Returns ErrEntryNotFound when no
// artifact exists. Deletion is only ever explicit; the store never expires
// entries on its own.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("%w: delete %s: %v", ErrStoreIO, key, err)
	}
	return nil
}
