package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/avaldez/tokenpress/pkg/tokenpress/cache"
)

// ErrTemplateNotFound indicates a cached extraction was requested for a
// file that does not exist at read time.
var ErrTemplateNotFound = errors.New("template file not found")

// Extractor extracts tokens from template files through a
// modification-time cache.
//
// The cache is keyed by absolute file path and invalidated whenever the
// file's modification timestamp changes, so a stale token list is never
// returned. The cache lives behind an explicit store handle rather than
// process-wide state, so independent extractors do not interfere.
// Extractor is safe for concurrent use.
type Extractor struct {
	// mu serializes file scans so a stat and the matching cache write
	// cannot interleave between concurrent callers for the same path.
	mu    sync.Mutex
	store cache.Store
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStore sets the cache store backing the extractor.
//
// Default: an in-memory store. Use cache.NewSQLiteStore to keep the cache
// across process restarts.
func WithStore(store cache.Store) Option {
	return func(e *Extractor) {
		e.store = store
	}
}

// New creates an Extractor with the given options.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = cache.NewMemoryStore()
	}
	return e
}

// FromFile extracts tokens from the file at path, using the cache when the
// file is unmodified since the last scan.
// Returns ErrTemplateNotFound if the file does not exist.
func (e *Extractor) FromFile(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", path, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("stat template %s: %w", path, err)
	}

	if entry, err := e.store.Load(abs); err == nil && entry.ModTime.Equal(info.ModTime()) {
		return entry.Tokens, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	tokens := Extract(string(data))

	// A cache write failure is not fatal; the next call simply rescans.
	_ = e.store.Save(cache.Entry{Path: abs, ModTime: info.ModTime(), Tokens: tokens})

	return tokens, nil
}

// FileTokens is the per-file outcome of a multi-file extraction.
type FileTokens struct {
	// Tokens is the extracted token list. Nil when Err is set.
	Tokens []string
	// Err is the extraction error for this file, if any.
	Err error
}

// FromFiles extracts tokens from every path, isolating per-file failures
// so one bad file does not abort the batch. The result maps each input
// path to its tokens or its error.
func (e *Extractor) FromFiles(paths []string) map[string]FileTokens {
	results := make(map[string]FileTokens, len(paths))
	for _, path := range paths {
		tokens, err := e.FromFile(path)
		results[path] = FileTokens{Tokens: tokens, Err: err}
	}
	return results
}

// AllUnique unions tokens across all paths into one sorted unique list.
// Files that fail to extract are skipped and reported in the returned map
// (nil when every file succeeded).
func (e *Extractor) AllUnique(paths []string) ([]string, map[string]error) {
	seen := make(map[string]struct{})
	var failed map[string]error

	for _, path := range paths {
		tokens, err := e.FromFile(path)
		if err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[path] = err
			continue
		}
		for _, token := range tokens {
			seen[token] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil, failed
	}
	union := make([]string, 0, len(seen))
	for token := range seen {
		union = append(union, token)
	}
	sort.Strings(union)
	return union, failed
}

// Invalidate drops the cache entry for one path.
func (e *Extractor) Invalidate(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", path, err)
	}
	return e.store.Delete(abs)
}

// ClearCache drops every cache entry.
func (e *Extractor) ClearCache() error {
	return e.store.Clear()
}

// Stats describes the current cache contents.
type Stats struct {
	// Size is the number of cached entries.
	Size int
	// Paths are the tracked absolute file paths, sorted.
	Paths []string
}

// CacheStats returns the current cache size and tracked paths.
func (e *Extractor) CacheStats() (Stats, error) {
	entries, err := e.store.List()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Size: len(entries)}
	for _, entry := range entries {
		stats.Paths = append(stats.Paths, entry.Path)
	}
	return stats, nil
}
