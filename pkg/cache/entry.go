package cache

import (
	"time"
)

// CacheEntry represents a cached upstream API response.
type CacheEntry struct {
	// Data is the raw response body.
	Data []byte `json:"data"`

	// StatusCode is the HTTP status of the cached response.
	StatusCode int `json:"status_code"`

	// FetchedAt is when the response was fetched from upstream.
	FetchedAt time.Time `json:"fetched_at"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`
}

// NewEntry creates an entry expiring ttl from now.
func NewEntry(data []byte, statusCode int, ttl time.Duration) *CacheEntry {
	now := time.Now()
	return &CacheEntry{
		Data:       data,
		StatusCode: statusCode,
		FetchedAt:  now,
		Expires:    now.Add(ttl),
	}
}

// IsExpired returns true if the entry has outlived its TTL.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Age returns how long ago the entry was fetched.
func (e *CacheEntry) Age() time.Duration {
	return time.Since(e.FetchedAt)
}
