package cache

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory cache store.
// It is the default store for an extractor; entries are lost when the
// process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]Entry
	closed bool
}

// NewMemoryStore creates a new in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Entry),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy tokens to avoid retaining the caller's slice
	tokens := make([]string, len(entry.Tokens))
	copy(tokens, entry.Tokens)
	entry.Tokens = tokens

	m.data[entry.Path] = entry
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(path string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	entry, ok := m.data[path]
	if !ok {
		return Entry{}, ErrNotFound
	}

	// Return a copy to prevent modification
	tokens := make([]string, len(entry.Tokens))
	copy(tokens, entry.Tokens)
	entry.Tokens = tokens
	return entry, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, path)
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	m.data = make(map[string]Entry)
	return nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	entries := make([]Entry, 0, len(m.data))
	for _, entry := range m.data {
		tokens := make([]string, len(entry.Tokens))
		copy(tokens, entry.Tokens)
		entry.Tokens = tokens
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of cached entries.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}
