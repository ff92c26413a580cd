// Package prefs provides SQLite-backed key-value preferences for newsdesk:
// per-action guide acknowledgements and small conveniences like the last
// opened draft. Documents and versions never live here; the backend is the
// sole authority for those.
package prefs

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the local preference database.
type Store struct {
	db *sql.DB
}

// Open creates the preference store, running migrations as needed.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create prefs directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open prefs db: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate prefs: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the value for key, with ok reporting whether it was set.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores a value for key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	return err
}

// Acknowledged reports whether a guide key was marked seen. Implements the
// guide-store capability injected into action workflows.
func (s *Store) Acknowledged(key string) bool {
	_, ok, err := s.Get(key)
	return err == nil && ok
}

// Acknowledge marks a guide key as seen.
func (s *Store) Acknowledge(key string) error {
	return s.Set(key, "1")
}

// LastArticle returns the most recently opened article ID, if any.
func (s *Store) LastArticle() (string, bool) {
	v, ok, err := s.Get("last_article")
	if err != nil {
		return "", false
	}
	return v, ok
}

// SetLastArticle records the most recently opened article ID.
func (s *Store) SetLastArticle(articleID string) error {
	return s.Set("last_article", articleID)
}
