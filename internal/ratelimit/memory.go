package ratelimit

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps rate-limit keys in process memory. Suitable for a single instance.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store; expired keys are purged every cleanupInterval
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Exists implements Store
func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, found := s.cache.Get(key)
	return found, nil
}

// PutWithTTL implements Store
func (s *MemoryStore) PutWithTTL(_ context.Context, key string, ttl time.Duration) error {
	s.cache.Set(key, struct{}{}, ttl)
	return nil
}

// Add implements AtomicStore
func (s *MemoryStore) Add(_ context.Context, key string, ttl time.Duration) (bool, error) {
	// go-cache's Add fails when an unexpired item exists
	return s.cache.Add(key, struct{}{}, ttl) == nil, nil
}
