package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested key is absent or expired.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the TTL cache contract shared by all backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the entry stored under key.
	// Returns ErrCacheMiss if the key is absent or the entry has expired.
	Get(ctx context.Context, key CacheKey) (*CacheEntry, error)

	// Set stores an entry. Entries whose TTL has already elapsed are
	// silently dropped.
	Set(ctx context.Context, key CacheKey, entry *CacheEntry) error

	// Delete removes the entry stored under key, if any.
	Delete(ctx context.Context, key CacheKey) error

	// Close releases backend resources.
	Close() error
}
