// Package store implements the local preference store: opaque key-value
// persistence over a single SQLite table. The mobile build backed this with
// the platform Preferences plugin; here the same get/set/remove surface is
// kept so callers never see the storage engine.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"swiftsell/internal/logging"
)

// Well-known keys. Callers may use arbitrary keys; these are the ones the
// application reserves.
const (
	KeyUserProfile  = "user_profile"
	KeyAdminAPIKeys = "admin_api_keys"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// Preferences is a SQLite-backed key-value store. Safe for concurrent use,
// though the application assumes a single logical writer (the active session).
type Preferences struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the preferences database at the given path, creating the
// parent directory if needed.
func Open(path string) (*Preferences, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	p := &Preferences{db: db, dbPath: path}
	if err := p.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("Preferences store opened at %s", path)
	return p, nil
}

func (p *Preferences) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create preferences table: %w", err)
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (p *Preferences) Get(key string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var value string
	err := p.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		logging.StoreError("Get %s failed: %v", key, err)
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (p *Preferences) Set(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.db.Exec(
		`INSERT INTO preferences (key, value, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
		 value = excluded.value,
		 updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		logging.StoreError("Set %s failed: %v", key, err)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes the value stored under key. Removing an absent key is not an
// error.
func (p *Preferences) Remove(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.db.Exec("DELETE FROM preferences WHERE key = ?", key); err != nil {
		logging.StoreError("Remove %s failed: %v", key, err)
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (p *Preferences) Close() error {
	return p.db.Close()
}
