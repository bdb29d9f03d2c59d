package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Hasher turns a client identifier into an opaque rate-limit key
type Hasher interface {
	Hash(ctx context.Context, clientID string) (string, error)
}

// SHA256Hasher hashes the identifier concatenated with a secret salt
type SHA256Hasher struct {
	salt string
}

// NewSHA256Hasher creates a salted hasher
func NewSHA256Hasher(salt string) *SHA256Hasher {
	return &SHA256Hasher{salt: salt}
}

// Hash implements Hasher, returning lowercase hex
func (h *SHA256Hasher) Hash(_ context.Context, clientID string) (string, error) {
	sum := sha256.Sum256([]byte(clientID + h.salt))
	return hex.EncodeToString(sum[:]), nil
}
