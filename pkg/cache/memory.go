package cache

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store backed by a map. Expiry is lazy:
// stale entries are dropped when Get touches them, or by Purge.
// There is no capacity bound.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*CacheEntry),
	}
}

// Get returns the entry stored under key.
// Returns ErrCacheMiss if the key is absent or the entry has expired.
func (s *MemoryStore) Get(_ context.Context, key CacheKey) (*CacheEntry, error) {
	cacheKey := key.String()

	s.mu.RLock()
	entry, ok := s.entries[cacheKey]
	s.mu.RUnlock()

	if !ok {
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrCacheMiss
	}

	if entry.IsExpired() {
		s.mu.Lock()
		delete(s.entries, cacheKey)
		s.mu.Unlock()
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("memory").Inc()
	return entry, nil
}

// Set stores an entry. Entries that are already expired are dropped.
func (s *MemoryStore) Set(_ context.Context, key CacheKey, entry *CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if entry.TTL() <= 0 {
		return nil
	}

	s.mu.Lock()
	s.entries[key.String()] = entry
	s.mu.Unlock()

	CacheSize.WithLabelValues("memory").Add(float64(len(entry.Data)))
	return nil
}

// Delete removes the entry stored under key.
func (s *MemoryStore) Delete(_ context.Context, key CacheKey) error {
	s.mu.Lock()
	delete(s.entries, key.String())
	s.mu.Unlock()
	return nil
}

// Purge removes all expired entries and returns how many were dropped.
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for k, entry := range s.entries {
		if entry.IsExpired() {
			delete(s.entries, k)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
