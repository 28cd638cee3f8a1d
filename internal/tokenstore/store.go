// Package tokenstore persists the bearer token under a well-known local
// key. The token is set on login, cleared on logout or decode failure, and
// read at the start of any authenticated operation.
package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const tokenKey = "token"

// ErrNoToken means no token has been stored; callers show the
// authentication-required state instead of issuing requests.
var ErrNoToken = errors.New("no stored token")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Set stores the token, replacing any previous one.
func (s *Store) Set(ctx context.Context, raw string) error {
	if raw == "" {
		return errors.New("refusing to store an empty token")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		tokenKey, raw)
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	slog.InfoContext(ctx, "Token stored")
	return nil
}

// Get returns the stored token, or ErrNoToken when none is present.
func (s *Store) Get(ctx context.Context) (string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM local_state WHERE key = ?`, tokenKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if raw == "" {
		return "", ErrNoToken
	}
	return raw, nil
}

// Clear removes the stored token. Clearing an already-empty store is fine.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM local_state WHERE key = ?`, tokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	slog.InfoContext(ctx, "Token cleared")
	return nil
}
