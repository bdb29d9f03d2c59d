package ratelimit

import (
	"context"
	"fmt"
	"time"
)

const keyPrefix = "ratelimit:"

// Limiter admits one request per client per interval
type Limiter struct {
	store    Store
	hasher   Hasher
	interval time.Duration
}

// NewLimiter creates a fixed-window limiter
func NewLimiter(store Store, hasher Hasher, interval time.Duration) *Limiter {
	return &Limiter{
		store:    store,
		hasher:   hasher,
		interval: interval,
	}
}

// Interval returns the window length
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Allow reports whether the client may proceed. The first call in a window
// records the client; later calls in the same window are denied.
func (l *Limiter) Allow(ctx context.Context, clientID string) (bool, error) {
	hashed, err := l.hasher.Hash(ctx, clientID)
	if err != nil {
		return false, fmt.Errorf("failed to hash client id: %w", err)
	}
	key := keyPrefix + hashed

	if atomic, ok := l.store.(AtomicStore); ok {
		added, err := atomic.Add(ctx, key, l.interval)
		if err != nil {
			return false, err
		}
		return added, nil
	}

	exists, err := l.store.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := l.store.PutWithTTL(ctx, key, l.interval); err != nil {
		return false, err
	}
	return true, nil
}
