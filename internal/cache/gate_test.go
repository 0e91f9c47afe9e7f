package cache

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestial/post-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testProfile(marker string) *domain.TrainedProfile {
	return &domain.TrainedProfile{
		SampleTexts: []string{marker},
		TrainedAt:   time.Now().UTC(),
	}
}

type gateFixture struct {
	gate  *Gate
	store *FileStore
	now   time.Time
	mu    sync.Mutex
}

func (f *gateFixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *gateFixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newGateFixture(t *testing.T, opts ...GateOption) *gateFixture {
	t.Helper()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	f := &gateFixture{
		store: store,
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	opts = append(opts, WithClock(f.clock))
	f.gate, err = NewGate(store, testLogger(), opts...)
	require.NoError(t, err)

	return f
}

func rebuildReturning(p *domain.TrainedProfile, calls *int) RebuildFunc {
	return func(context.Context) (*domain.TrainedProfile, error) {
		if calls != nil {
			*calls++
		}
		return p, nil
	}
}

func TestGateResolveMissThenHit(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	ctx := context.Background()

	calls := 0
	profile, cached, age, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v1"), &calls))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Nil(t, age, "no prior entry, so age must be nil")
	assert.Equal(t, 1, calls)
	require.NotNil(t, profile)

	// Second resolve is a hit and returns the stored payload unchanged.
	f.advance(2 * time.Hour)
	profile2, cached2, age2, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v2"), &calls))
	require.NoError(t, err)
	assert.True(t, cached2)
	assert.Equal(t, 1, calls, "rebuild must not run on a valid hit")
	require.NotNil(t, age2)
	assert.InDelta(t, 2.0, *age2, 0.01)
	assert.Equal(t, profile.SampleTexts, profile2.SampleTexts)
}

func TestGateResolveTTLBoundary(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	ctx := context.Background()

	calls := 0
	_, _, _, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v1"), &calls))
	require.NoError(t, err)

	// Just inside the 24h TTL: still a hit.
	f.advance(23*time.Hour + 59*time.Minute)
	_, cached, _, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v2"), &calls))
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, calls)

	// Just past the TTL: rebuild triggers.
	f.advance(2 * time.Minute)
	_, cached, age, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v3"), &calls))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, calls)
	require.NotNil(t, age)
	assert.Greater(t, *age, 24.0)
}

func TestGateForceRefreshRebuildsFreshEntry(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	ctx := context.Background()

	calls := 0
	_, _, _, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v1"), &calls))
	require.NoError(t, err)

	f.advance(time.Hour)
	profile, cached, age, err := f.gate.Resolve(ctx, "Jane Doe", true, rebuildReturning(testProfile("v2"), &calls))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, calls)
	require.NotNil(t, age, "age of the overwritten entry is still reported")
	assert.Equal(t, []string{"v2"}, profile.SampleTexts)

	// The entry was overwritten, so a follow-up resolve serves v2.
	got, cached, _, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v3"), &calls))
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, []string{"v2"}, got.SampleTexts)
}

func TestGateRebuildFailureLeavesStaleEntry(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	ctx := context.Background()

	_, _, _, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v1"), nil))
	require.NoError(t, err)

	f.advance(25 * time.Hour)
	boom := errors.New("scrape blew up")
	_, _, _, err = f.gate.Resolve(ctx, "Jane Doe", false, func(context.Context) (*domain.TrainedProfile, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// The stale entry is untouched and still readable.
	entry, err := f.store.Load(NormalizeKey("Jane Doe"))
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, entry.Profile.SampleTexts)
}

func TestGateStatusAndClear(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	ctx := context.Background()

	cached, age, err := f.gate.Status("Jane Doe")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Nil(t, age)

	_, _, _, err = f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v1"), nil))
	require.NoError(t, err)

	f.advance(2 * time.Hour)
	cached, age, err = f.gate.Status("Jane Doe")
	require.NoError(t, err)
	assert.True(t, cached)
	require.NotNil(t, age)
	assert.InDelta(t, 2.0, *age, 0.01)

	require.NoError(t, f.gate.Clear("Jane Doe"))
	assert.ErrorIs(t, f.gate.Clear("Jane Doe"), ErrEntryNotFound)
}

func TestGateSerializesSameKeyRebuilds(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	ctx := context.Background()

	var mu sync.Mutex
	inFlight, maxInFlight, calls := 0, 0, 0

	rebuild := func(context.Context) (*domain.TrainedProfile, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		calls++
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return testProfile("shared"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuild)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight, "at most one rebuild in flight per key")
	assert.Equal(t, 1, calls, "followers must observe the entry the leader wrote")
}

func TestGateDifferentKeysDoNotBlock(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _, _, _ = f.gate.Resolve(ctx, "slow profile", false, func(context.Context) (*domain.TrainedProfile, error) {
			close(started)
			<-release
			return testProfile("slow"), nil
		})
	}()

	<-started

	// A rebuild for a different key completes while the first is blocked.
	done := make(chan struct{})
	go func() {
		_, _, _, err := f.gate.Resolve(ctx, "fast profile", false, rebuildReturning(testProfile("fast"), nil))
		assert.NoError(t, err)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("rebuild for a different key was blocked")
	}
	close(release)
}

func TestGateTTLOption(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t, WithTTL(time.Hour))
	assert.Equal(t, time.Hour, f.gate.TTL())

	ctx := context.Background()
	calls := 0
	_, _, _, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v1"), &calls))
	require.NoError(t, err)

	f.advance(61 * time.Minute)
	_, cached, _, err := f.gate.Resolve(ctx, "Jane Doe", false, rebuildReturning(testProfile("v2"), &calls))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, calls)
}

func TestFileStoreIgnoresUnknownFields(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	raw := `{
		"key": "jane_doe",
		"profile": {"sample_texts": ["hello"]},
		"written_at": "2025-06-01T12:00:00Z",
		"some_future_field": {"nested": true}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jane_doe.json"), []byte(raw), 0o644))

	entry, err := store.Load("jane_doe")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, entry.Profile.SampleTexts)
}

func TestFileStoreWriteLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Write("jane_doe", testProfile("v1"), time.Now()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "jane_doe.json", entries[0].Name())
}
