package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/celestial/post-api/internal/domain"
)

// DefaultTTL is the maximum artifact age before a rebuild is triggered.
const DefaultTTL = 24 * time.Hour

// RebuildFunc performs the full acquire-store-train pipeline and returns
// the fresh artifact for a profile.
type RebuildFunc func(ctx context.Context) (*domain.TrainedProfile, error)

// Gate decides cache hit or miss for trained profile artifacts and owns
// their lifecycle: it is the only writer of the underlying store.
type Gate struct {
	store  *FileStore
	ttl    time.Duration
	logger *slog.Logger

	// now is injectable for deterministic TTL tests.
	now func() time.Time

	// locks serializes rebuilds per normalized key. Entries are created on
	// demand and kept for the process lifetime; the key space is bounded by
	// the number of distinct profiles served.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithTTL overrides the default artifact TTL.
func WithTTL(ttl time.Duration) GateOption {
	return func(g *Gate) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) { g.now = now }
}

// NewGate creates a Gate over the given store.
func NewGate(store *FileStore, logger *slog.Logger, opts ...GateOption) (*Gate, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	g := &Gate{
		store:  store,
		ttl:    DefaultTTL,
		logger: logger,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// TTL returns the configured artifact time-to-live.
func (g *Gate) TTL() time.Duration {
	return g.ttl
}

// Resolve returns the artifact for profileName, rebuilding it when the
// stored entry is absent, older than the TTL, or forceRefresh is set.
//
// On a valid cache hit the stored payload is returned unchanged with
// wasCached=true. On a miss, rebuild runs, its result is persisted, and
// wasCached=false. If rebuild fails, any stale entry is left untouched and
// the failure propagates; no partial entry is ever written.
//
// ageHours reports the entry age at resolution time, or nil when no entry
// existed beforehand. Concurrent resolves for the same key are serialized;
// the second caller observes the entry the first one wrote.
func (g *Gate) Resolve(
	ctx context.Context,
	profileName string,
	forceRefresh bool,
	rebuild RebuildFunc,
) (*domain.TrainedProfile, bool, *float64, error) {
	key := NormalizeKey(profileName)

	lock := g.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	entry, err := g.store.Load(key)
	if err != nil && !errors.Is(err, ErrEntryNotFound) {
		return nil, false, nil, err
	}

	var ageHours *float64
	if entry != nil {
		age := g.now().Sub(entry.WrittenAt).Hours()
		ageHours = &age
	}

	if entry != nil && !forceRefresh && *ageHours < g.ttl.Hours() {
		g.logger.DebugContext(ctx, "cache hit",
			"key", key,
			"age_hours", *ageHours)
		return entry.Profile, true, ageHours, nil
	}

	g.logger.InfoContext(ctx, "cache miss, rebuilding profile",
		"key", key,
		"force_refresh", forceRefresh,
		"stale", entry != nil)

	profile, err := rebuild(ctx)
	if err != nil {
		// Stale entry stays intact for a later retry.
		return nil, false, ageHours, fmt.Errorf("rebuild profile %s: %w", key, err)
	}

	if err := g.store.Write(key, profile, g.now()); err != nil {
		return nil, false, ageHours, err
	}

	return profile, false, ageHours, nil
}

// Status reports whether an artifact exists for profileName and its age.
func (g *Gate) Status(profileName string) (bool, *float64, error) {
	key := NormalizeKey(profileName)

	entry, err := g.store.Load(key)
	if errors.Is(err, ErrEntryNotFound) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}

	age := g.now().Sub(entry.WrittenAt).Hours()
	return true, &age, nil
}

// Clear removes the artifact for profileName. Returns ErrEntryNotFound
// when none exists.
func (g *Gate) Clear(profileName string) error {
	return g.store.Delete(NormalizeKey(profileName))
}

func (g *Gate) keyLock(key string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[key] = lock
	}
	return lock
}
