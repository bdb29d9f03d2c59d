package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const createRateLimitTable = `
CREATE TABLE IF NOT EXISTS rate_limits (
	key        TEXT PRIMARY KEY,
	expires_at INTEGER NOT NULL
)`

// SQLStore keeps rate-limit keys in a SQLite table so several processes on one
// host share the same windows
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore creates the backing table if needed
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, createRateLimitTable); err != nil {
		return nil, fmt.Errorf("failed to create rate_limits table: %w", err)
	}
	return &SQLStore{db: db, now: time.Now}, nil
}

// Exists implements Store
func (s *SQLStore) Exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_limits WHERE key = ? AND expires_at > ?`,
		key, s.now().UnixNano(),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit key: %w", err)
	}
	return n > 0, nil
}

// PutWithTTL implements Store
func (s *SQLStore) PutWithTTL(ctx context.Context, key string, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rate_limits (key, expires_at) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET expires_at = excluded.expires_at`,
		key, s.now().Add(ttl).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to store rate limit key: %w", err)
	}
	return nil
}

// Add implements AtomicStore. An expired row is overwritten; a live one is kept.
func (s *SQLStore) Add(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rate_limits (key, expires_at) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET expires_at = excluded.expires_at
		WHERE rate_limits.expires_at <= ?`,
		key, now.Add(ttl).UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to add rate limit key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Purge deletes expired rows
func (s *SQLStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rate_limits WHERE expires_at <= ?`, s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge rate limit keys: %w", err)
	}
	return res.RowsAffected()
}
