package store

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hariprasanth02/2203031240132/internal/shortener"
)

type memoryEntry struct {
	shortURL shortener.ShortURL
	hits     atomic.Int64
}

// MemoryStore is an in-memory implementation of shortener.Registry.
// The map lock covers membership only; hit counts are per-entry atomics so
// redirects on different codes never serialize.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[shortener.Code]*memoryEntry
	order   []*memoryEntry
}

// NewMemoryStore creates a new in-memory registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[shortener.Code]*memoryEntry),
	}
}

func (m *MemoryStore) Exists(_ context.Context, code shortener.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[code]

	return ok, nil
}

func (m *MemoryStore) Insert(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[shortURL.Code]; ok {
		return shortener.ErrDuplicateCode
	}

	entry := &memoryEntry{shortURL: *shortURL}
	entry.shortURL.Hits = 0

	m.entries[shortURL.Code] = entry
	m.order = append(m.order, entry)

	return nil
}

func (m *MemoryStore) Get(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	entry, ok := m.entries[code]
	m.mu.RUnlock()

	if !ok {
		return nil, shortener.ErrNotFound
	}

	return entry.snapshot(), nil
}

func (m *MemoryStore) IncrementHits(_ context.Context, code shortener.Code) (int64, error) {
	m.mu.RLock()
	entry, ok := m.entries[code]
	m.mu.RUnlock()

	if !ok {
		return 0, shortener.ErrNotFound
	}

	return entry.hits.Add(1), nil
}

func (m *MemoryStore) List(_ context.Context) ([]shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]shortener.ShortURL, 0, len(m.order))
	for _, entry := range m.order {
		links = append(links, *entry.snapshot())
	}

	return links, nil
}

// Len returns the number of records held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.order)
}

func (e *memoryEntry) snapshot() *shortener.ShortURL {
	shortURL := e.shortURL
	shortURL.Hits = e.hits.Load()

	return &shortURL
}

// Compile-time check.
var _ shortener.Registry = (*MemoryStore)(nil)
