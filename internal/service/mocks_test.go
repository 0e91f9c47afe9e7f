package service

import (
	"context"
	"sync"
	"time"

	"github.com/celestial/post-api/internal/cache"
	"github.com/celestial/post-api/internal/domain"
)

// mockCache scripts the profile cache. When hit is set, Resolve returns
// the stored profile without running rebuild; otherwise rebuild runs
// and its result is returned as a miss.
type mockCache struct {
	mu       sync.Mutex
	hit      bool
	profile  *domain.TrainedProfile
	ageHours *float64
	ttl      time.Duration

	statusErr error
	clearErr  error

	resolveCalls int
	clearedNames []string
}

func (m *mockCache) Resolve(ctx context.Context, profileName string, forceRefresh bool,
	rebuild cache.RebuildFunc) (*domain.TrainedProfile, bool, *float64, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()

	if m.hit && !forceRefresh {
		return m.profile, true, m.ageHours, nil
	}

	profile, err := rebuild(ctx)
	if err != nil {
		return nil, false, m.ageHours, err
	}
	return profile, false, m.ageHours, nil
}

func (m *mockCache) Status(profileName string) (bool, *float64, error) {
	if m.statusErr != nil {
		return false, nil, m.statusErr
	}
	return m.hit, m.ageHours, nil
}

func (m *mockCache) Clear(profileName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clearedNames = append(m.clearedNames, profileName)
	return nil
}

func (m *mockCache) TTL() time.Duration {
	if m.ttl == 0 {
		return 24 * time.Hour
	}
	return m.ttl
}

// mockContentStore records inserts and serves canned recent posts.
type mockContentStore struct {
	mu        sync.Mutex
	recent    []*domain.ContentRecord
	recentErr error
	insertErr error
	inserted  [][]*domain.ContentRecord
}

func (m *mockContentStore) Insert(ctx context.Context, records []*domain.ContentRecord) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, 0, m.insertErr
	}
	m.inserted = append(m.inserted, records)
	return len(records), 0, nil
}

func (m *mockContentStore) Recent(ctx context.Context, limit int) ([]*domain.ContentRecord, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	if limit < len(m.recent) {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

func (m *mockContentStore) Close() error { return nil }

// mockScraper returns canned records or an error.
type mockScraper struct {
	records []*domain.ContentRecord
	err     error

	mu       sync.Mutex
	profiles []string
}

func (m *mockScraper) RecentPosts(ctx context.Context, profile string) ([]*domain.ContentRecord, error) {
	m.mu.Lock()
	m.profiles = append(m.profiles, profile)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

// mockGenerator captures the prompt and echoes a canned post.
type mockGenerator struct {
	mu      sync.Mutex
	prompts []string
	post    string
	err     error
}

func (m *mockGenerator) GeneratePost(ctx context.Context, prompt, idea string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.post, nil
}

// mockWeb returns a fixed snippet string.
type mockWeb struct {
	snippets string
	queries  []string
}

func (m *mockWeb) Snippets(ctx context.Context, query string) string {
	m.queries = append(m.queries, query)
	if m.snippets == "" {
		return "None"
	}
	return m.snippets
}
