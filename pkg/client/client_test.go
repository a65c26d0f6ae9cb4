package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foodatlas/nutrition-explorer/pkg/cache"
)

func testConfig() Config {
	cfg := DefaultConfig("nutrition-explorer-test/1.0")
	cfg.InitialBackoff = 1 * time.Millisecond
	return cfg
}

func TestNew_RequiresUserAgent(t *testing.T) {
	_, err := New(Config{}, nil, nil)
	if err == nil {
		t.Fatal("expected error for missing user-agent")
	}
}

func TestGetBytes_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "nutrition-explorer-test/1.0" {
			t.Errorf("User-Agent = %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "banana" {
			t.Errorf("query param = %q, want banana", got)
		}
		w.Write([]byte(`{"foods":[]}`))
	}))
	defer server.Close()

	c, err := New(testConfig(), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	params := url.Values{"query": {"banana"}}
	body, err := c.GetBytes(context.Background(), "usda", server.URL+"/v1/foods/search", params)
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if string(body) != `{"foods":[]}` {
		t.Errorf("body = %q", body)
	}
}

func TestGetBytes_CacheHitSkipsUpstream(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"foods":[{"description":"Banana"}]}`))
	}))
	defer server.Close()

	store := cache.NewMemoryStore()
	defer store.Close()

	c, err := New(testConfig(), store, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	params := url.Values{"query": {"banana"}}

	first, err := c.GetBytes(ctx, "usda", server.URL+"/v1/foods/search", params)
	if err != nil {
		t.Fatalf("first GetBytes: %v", err)
	}
	second, err := c.GetBytes(ctx, "usda", server.URL+"/v1/foods/search", params)
	if err != nil {
		t.Fatalf("second GetBytes: %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1 (second call must come from cache)", hits.Load())
	}
	if string(first) != string(second) {
		t.Errorf("cached body differs: %q vs %q", first, second)
	}
}

func TestGetBytes_CredentialsNotInCacheKey(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	store := cache.NewMemoryStore()
	defer store.Close()

	c, _ := New(testConfig(), store, nil)
	ctx := context.Background()

	if _, err := c.GetBytes(ctx, "usda", server.URL+"/search", url.Values{"query": {"rice"}, "api_key": {"key-one"}}); err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if _, err := c.GetBytes(ctx, "usda", server.URL+"/search", url.Values{"query": {"rice"}, "api_key": {"key-two"}}); err != nil {
		t.Fatalf("GetBytes: %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1 (api_key must not partition the cache)", hits.Load())
	}
}

func TestGetBytes_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	cfg := testConfig()
	cfg.MaxRetries = 1
	c, _ := New(cfg, nil, nil)

	_, err := c.GetBytes(context.Background(), "usda", server.URL+"/search", nil)
	if err == nil {
		t.Fatal("expected error for unreachable upstream")
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("expected NetworkError in chain, got %v", err)
	}
}

func TestGetBytes_ClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	c, _ := New(testConfig(), nil, nil)

	_, err := c.GetBytes(context.Background(), "mealdb", server.URL+"/search.php", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1 (4xx must not be retried)", hits.Load())
	}
}

func TestGetBytes_ServerErrorRetried(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"meals":null}`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxRetries = 3
	c, _ := New(cfg, nil, nil)

	body, err := c.GetBytes(context.Background(), "mealdb", server.URL+"/search.php", nil)
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if string(body) != `{"meals":null}` {
		t.Errorf("body = %q", body)
	}
	if hits.Load() != 3 {
		t.Errorf("upstream hits = %d, want 3", hits.Load())
	}
}

func TestGetBytes_ErrorNotCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	store := cache.NewMemoryStore()
	defer store.Close()

	c, _ := New(testConfig(), store, nil)
	ctx := context.Background()

	if _, err := c.GetBytes(ctx, "usda", server.URL+"/search", nil); err == nil {
		t.Fatal("expected error from first call")
	}

	body, err := c.GetBytes(ctx, "usda", server.URL+"/search", nil)
	if err != nil {
		t.Fatalf("second GetBytes: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q (failed responses must not be served from cache)", body)
	}
}

func TestGetJSON_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"foods": [truncated`))
	}))
	defer server.Close()

	c, _ := New(testConfig(), nil, nil)

	var out map[string]any
	err := c.GetJSON(context.Background(), "usda", server.URL+"/search", nil, &out)

	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
	if dataErr.Provider != "usda" {
		t.Errorf("Provider = %q, want usda", dataErr.Provider)
	}
}

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalHits": 42}`))
	}))
	defer server.Close()

	c, _ := New(testConfig(), nil, nil)

	var out struct {
		TotalHits int `json:"totalHits"`
	}
	if err := c.GetJSON(context.Background(), "usda", server.URL+"/search", nil, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.TotalHits != 42 {
		t.Errorf("TotalHits = %d, want 42", out.TotalHits)
	}
}
