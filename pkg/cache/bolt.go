package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltBucket = "responses"

// BoltStore is a Store backed by a local bbolt file. It gives the CLI and
// MCP entry points a cache that survives restarts without needing Redis.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt initializes or opens a BoltStore at the given path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Get returns the entry stored under key.
// Returns ErrCacheMiss if the key is absent or the entry has expired.
func (s *BoltStore) Get(ctx context.Context, key CacheKey) (*CacheEntry, error) {
	cacheKey := []byte(key.String())

	var raw []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(boltBucket)).Get(cacheKey); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("bolt get: %w", err)
	}

	if raw == nil {
		CacheMisses.WithLabelValues("bolt").Inc()
		return nil, ErrCacheMiss
	}

	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if entry.IsExpired() {
		_ = s.Delete(ctx, key)
		CacheMisses.WithLabelValues("bolt").Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("bolt").Inc()
	return &entry, nil
}

// Set stores a cache entry. Expired entries are dropped.
func (s *BoltStore) Set(_ context.Context, key CacheKey, entry *CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if entry.TTL() <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key.String()), data)
	}); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("bolt put: %w", err)
	}

	CacheSize.WithLabelValues("bolt").Add(float64(len(data)))
	return nil
}

// Delete removes a cache entry.
func (s *BoltStore) Delete(_ context.Context, key CacheKey) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key.String()))
	}); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("bolt delete: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
