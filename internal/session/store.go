package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/httech/voltgo/internal/pkg/metrics"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get for a missing key
var ErrNotFound = errors.New("key not found")

// Store is a small SQLite-backed key-value store scoped to one installation
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the value stored under key
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordSessionOp("get", true)
		return "", ErrNotFound
	}
	metrics.RecordSessionOp("get", err == nil)
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	metrics.RecordSessionOp("set", err == nil)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	metrics.RecordSessionOp("delete", err == nil)
	return err
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
