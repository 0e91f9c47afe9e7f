// Package ratelimit provides a token-bucket limiter that caps the rate of
// outbound calls to the generative model endpoint. The bucket is refilled
// lazily on each Acquire; there is no background timer.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Default limiter settings, shared by all model tiers.
const (
	DefaultRate     = 1.0 // tokens per second
	DefaultCapacity = 3.0
)

// TokenBucket is a blocking token-bucket rate limiter safe for use by
// concurrent callers. The read-refill-decide-mutate sequence runs under a
// single mutex, so two callers can never both spend the same token.
type TokenBucket struct {
	mu       sync.Mutex
	rate     float64
	capacity float64
	tokens   float64
	last     time.Time

	// now and sleep are injectable for deterministic tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a TokenBucket.
type Option func(*TokenBucket)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *TokenBucket) { b.now = now }
}

// WithSleep replaces the blocking wait, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(b *TokenBucket) { b.sleep = sleep }
}

// NewTokenBucket creates a limiter that refills at rate tokens/second up to
// capacity. Non-positive arguments fall back to the defaults. The bucket
// starts full.
func NewTokenBucket(rate, capacity float64, opts ...Option) *TokenBucket {
	if rate <= 0 {
		rate = DefaultRate
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	b := &TokenBucket{
		rate:     rate,
		capacity: capacity,
		tokens:   capacity,
		now:      time.Now,
		sleep:    sleepContext,
	}
	b.last = b.now()

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Acquire blocks until a token is available, then consumes one. When the
// bucket is empty the caller waits (1 - tokens) / rate seconds and the
// deficit is absorbed: the count is set to zero, never negative.
//
// Returns early with the context's error if ctx is cancelled during the wait.
func (b *TokenBucket) Acquire(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	elapsed := now.Sub(b.last).Seconds()
	if elapsed < 0 {
		// Wall clock went backwards; treat as no time passed.
		elapsed = 0
	}
	b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	b.last = now

	if b.tokens < 1 {
		wait := time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
		if err := b.sleep(ctx, wait); err != nil {
			return err
		}
		b.tokens = 0
		return nil
	}

	b.tokens--
	return nil
}

// sleepContext blocks for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
