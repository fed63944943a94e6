// Package keystore persists the client-held API secret. It is the terminal
// counterpart of a browser's local storage: one string under a fixed key,
// read on startup and before every outbound API request.
package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"munch/internal/logging"

	_ "modernc.org/sqlite"
)

// APIKeyName is the fixed storage key for the upstream LLM key.
const APIKeyName = "openai-api-key"

// Store is a tiny key/value table in a SQLite file.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open creates or opens the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Get returns the value for key, or "" when unset.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

// Set stores value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	logging.Store("stored %s (%d chars)", key, len(value))
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	logging.Store("deleted %s", key)
	return nil
}

// APIKey reads the API key. A read failure is treated as "no key" so a broken
// store never blocks a request; the failure is logged.
func (s *Store) APIKey(ctx context.Context) string {
	v, err := s.Get(ctx, APIKeyName)
	if err != nil {
		logging.Get(logging.CategoryStore).Warn("api key read failed: %v", err)
		return ""
	}
	return v
}

// SeedAPIKey stores v only when no key is present yet.
func (s *Store) SeedAPIKey(ctx context.Context, v string) error {
	if v == "" {
		return nil
	}
	cur, err := s.Get(ctx, APIKeyName)
	if err != nil {
		return err
	}
	if cur != "" {
		return nil
	}
	return s.Set(ctx, APIKeyName, v)
}

// Mask hides all but the last four characters of a secret.
func Mask(v string) string {
	if v == "" {
		return "(not set)"
	}
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}
