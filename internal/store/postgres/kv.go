package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MrSnakeDoc/sip/internal/errs"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT now())`
	selectValueSQL = `SELECT value FROM kv WHERE key=$1`
	upsertValueSQL = `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
)

// Store implements the KV substrate on the kv table.
type Store struct{ db *DB }

// NewStore constructs a store over db. Call EnsureSchema once before use.
func NewStore(db *DB) *Store { return &Store{db: db} }

// EnsureSchema creates the kv table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

// Get selects the value of key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	if err := s.db.Pool.QueryRow(ctx, selectValueSQL, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errs.ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the value of key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.Pool.Exec(ctx, upsertValueSQL, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Ping checks the pool can reach the server.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Pool.Ping(ctx)
}
