// Package ratelimit implements a fixed-window admission gate: one request per
// client key per interval, with the window reset by key expiry in a Store.
package ratelimit

import (
	"context"
	"time"
)

// Store is the key-value store with expiry backing the limiter
type Store interface {
	// Exists reports whether key is present and not expired
	Exists(ctx context.Context, key string) (bool, error)
	// PutWithTTL stores key until ttl elapses
	PutWithTTL(ctx context.Context, key string, ttl time.Duration) error
}

// AtomicStore is implemented by stores that can insert-if-absent in one step.
// The limiter prefers it over Exists followed by PutWithTTL.
type AtomicStore interface {
	Store
	// Add stores key only if it is absent and reports whether it did
	Add(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
