// Package cache provides TTL caching for upstream API responses.
//
// Responses are stored as CacheEntry values under a deterministic CacheKey
// derived from the provider, endpoint and query parameters. Expiry is
// checked lazily on Get: an entry that outlived its TTL is treated as a
// miss and removed.
//
// Three Store backends are available:
//
//   - MemoryStore: in-process map, the default. Nothing survives a restart,
//     which matches the application's "no persistence" posture.
//   - RedisStore: shared cache for multi-instance deployments. Redis expiry
//     is set from the entry TTL, so stale entries also age out server-side.
//   - BoltStore: single-file persistent cache for CLI and MCP usage where
//     no Redis is around.
//
// All stores return ErrCacheMiss for absent or expired keys so callers can
// treat "miss" uniformly:
//
//	entry, err := store.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//	    // fetch upstream
//	}
package cache
