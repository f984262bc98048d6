package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists extraction results to SQLite so a long-lived
// process (or a dev-server restart) does not rescan unchanged templates.
// It is suitable for single-process use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite cache store.
// The path should be a file path (e.g., "./tokens.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS token_cache (
			path TEXT NOT NULL PRIMARY KEY,
			mod_time TEXT NOT NULL,
			tokens TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tokens, err := json.Marshal(entry.Tokens)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO token_cache (path, mod_time, tokens)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mod_time = excluded.mod_time,
			tokens = excluded.tokens
	`, entry.Path, entry.ModTime.UTC().Format(time.RFC3339Nano), tokens)

	if err != nil {
		return fmt.Errorf("save cache entry: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(path string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	var modTime string
	var tokens []byte
	err := s.db.QueryRow(`
		SELECT mod_time, tokens FROM token_cache
		WHERE path = ?
	`, path).Scan(&modTime, &tokens)

	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load cache entry: %w", err)
	}

	return decodeEntry(path, modTime, tokens)
}

// Delete implements Store.
func (s *SQLiteStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM token_cache WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM token_cache`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT path, mod_time, tokens FROM token_cache
		ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var path, modTime string
		var tokens []byte
		if err := rows.Scan(&path, &modTime, &tokens); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		entry, err := decodeEntry(path, modTime, tokens)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache entries: %w", err)
	}

	return entries, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

func decodeEntry(path, modTime string, tokens []byte) (Entry, error) {
	entry := Entry{Path: path}

	ts, err := time.Parse(time.RFC3339Nano, modTime)
	if err != nil {
		return Entry{}, fmt.Errorf("parse mod time: %w", err)
	}
	entry.ModTime = ts

	if err := json.Unmarshal(tokens, &entry.Tokens); err != nil {
		return Entry{}, fmt.Errorf("decode tokens: %w", err)
	}
	return entry, nil
}
