// Package session persists the CRM session token between console runs,
// the terminal counterpart of the browser console's localStorage entry.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no session is stored for the endpoint.
var ErrNotFound = errors.New("session: not found")

// Session is one stored credential, keyed by the API base URL so multiple
// CRM endpoints can coexist.
type Session struct {
	BaseURL   string
	Username  string
	Token     string
	CreatedAt time.Time
}

// Store keeps sessions in a small SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open initializes the database at path, creating directories and schema
// as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("session: create directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: set journal_mode: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		base_url   TEXT PRIMARY KEY,
		username   TEXT NOT NULL,
		token      TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save stores or replaces the session for a base URL.
func (s *Store) Save(baseURL, username, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO sessions (base_url, username, token, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(base_url) DO UPDATE SET
			username = excluded.username,
			token = excluded.token,
			created_at = excluded.created_at`,
		baseURL, username, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// Load returns the stored session for a base URL.
func (s *Store) Load(baseURL string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRow(
		`SELECT base_url, username, token, created_at FROM sessions WHERE base_url = ?`,
		baseURL)

	var sess Session
	err := row.Scan(&sess.BaseURL, &sess.Username, &sess.Token, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	return &sess, nil
}

// Clear removes the stored session for a base URL. Clearing a missing
// session is not an error.
func (s *Store) Clear(baseURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE base_url = ?`, baseURL); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
