// Package cache provides storage for extracted token lists keyed by
// template file path and modification time.
package cache

import (
	"errors"
	"time"
)

// Store persists extraction results between scans.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores an entry, overwriting any entry for the same path.
	Save(entry Entry) error

	// Load retrieves the entry for a path.
	// Returns ErrNotFound if no entry exists.
	Load(path string) (Entry, error)

	// Delete removes the entry for a path.
	// Returns nil if no entry exists.
	Delete(path string) error

	// Clear removes every entry.
	Clear() error

	// List returns all entries ordered by path.
	List() ([]Entry, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one cached extraction result.
type Entry struct {
	// Path is the absolute template file path.
	Path string
	// ModTime is the file modification time the tokens were extracted at.
	ModTime time.Time
	// Tokens is the sorted unique token list extracted from the file.
	Tokens []string
}

// Sentinel errors for cache operations.
var (
	// ErrNotFound indicates no entry exists for the path.
	ErrNotFound = errors.New("cache entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("cache store closed")
)
