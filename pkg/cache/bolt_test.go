package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupTestBolt(t *testing.T) *BoltStore {
	t.Helper()

	store, err := OpenBolt(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStore_SetAndGet(t *testing.T) {
	store := setupTestBolt(t)
	ctx := context.Background()

	key := CacheKey{Provider: "mealdb", Endpoint: "/search.php"}
	entry := NewEntry([]byte(`{"meals": null}`), 200, 5*time.Minute)

	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	retrieved, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(retrieved.Data) != string(entry.Data) {
		t.Errorf("Data mismatch: got %s, want %s", retrieved.Data, entry.Data)
	}
}

func TestBoltStore_Get_CacheMiss(t *testing.T) {
	store := setupTestBolt(t)

	_, err := store.Get(context.Background(), CacheKey{Endpoint: "/nonexistent"})
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestBoltStore_Get_ExpiredEntry(t *testing.T) {
	store := setupTestBolt(t)
	ctx := context.Background()

	key := CacheKey{Endpoint: "/v1/test"}
	entry := NewEntry([]byte(`{"test": "data"}`), 200, 30*time.Millisecond)

	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if _, err := store.Get(ctx, key); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after TTL elapsed, got %v", err)
	}
}

func TestBoltStore_Delete(t *testing.T) {
	store := setupTestBolt(t)
	ctx := context.Background()

	key := CacheKey{Endpoint: "/v1/test"}
	entry := NewEntry([]byte(`{"test": "data"}`), 200, 5*time.Minute)

	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(ctx, key); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after Delete, got %v", err)
	}
}
