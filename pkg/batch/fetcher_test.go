package batch

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchAll_PreservesOrder(t *testing.T) {
	f := New(DefaultConfig(), func(ctx context.Context, key string) (string, error) {
		return strings.ToUpper(key), nil
	})

	keys := []string{"chicken", "rice", "tomato"}
	results, err := f.FetchAll(context.Background(), keys)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if len(results) != len(keys) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(keys))
	}
	for i, key := range keys {
		if results[i].Key != key {
			t.Errorf("results[%d].Key = %q, want %q", i, results[i].Key, key)
		}
		if results[i].Value != strings.ToUpper(key) {
			t.Errorf("results[%d].Value = %q", i, results[i].Value)
		}
	}
}

func TestFetchAll_PartialFailure(t *testing.T) {
	lookupErr := errors.New("upstream unavailable")
	f := New(DefaultConfig(), func(ctx context.Context, key string) (int, error) {
		if key == "bad" {
			return 0, lookupErr
		}
		return len(key), nil
	})

	results, err := f.FetchAll(context.Background(), []string{"chicken", "bad", "rice"})
	if !errors.Is(err, lookupErr) {
		t.Errorf("expected first failure back, got %v", err)
	}

	if results[0].Err != nil || results[2].Err != nil {
		t.Error("successful lookups must not carry errors")
	}
	if results[0].Value != len("chicken") {
		t.Errorf("results[0].Value = %d", results[0].Value)
	}
	if results[1].Err == nil {
		t.Error("failed lookup must carry its error")
	}
}

func TestFetchAll_EmptyKeys(t *testing.T) {
	f := New(DefaultConfig(), func(ctx context.Context, key string) (string, error) {
		t.Fatal("fn must not be called for empty keys")
		return "", nil
	})

	results, err := f.FetchAll(context.Background(), nil)
	if err != nil || results != nil {
		t.Errorf("FetchAll(nil) = %v, %v; want nil, nil", results, err)
	}
}

func TestFetchAll_BoundedConcurrency(t *testing.T) {
	var current, peak atomic.Int32

	cfg := Config{MaxConcurrency: 2, Timeout: time.Second}
	f := New(cfg, func(ctx context.Context, key string) (string, error) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		current.Add(-1)
		return key, nil
	})

	keys := []string{"a", "b", "c", "d", "e", "f"}
	if _, err := f.FetchAll(context.Background(), keys); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestFetchAll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(Config{MaxConcurrency: 1, Timeout: time.Second}, func(ctx context.Context, key string) (string, error) {
		return key, ctx.Err()
	})

	results, err := f.FetchAll(ctx, []string{"a", "b"})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	for _, r := range results {
		if r.Err == nil {
			t.Errorf("result %q should carry cancellation error", r.Key)
		}
	}
}
