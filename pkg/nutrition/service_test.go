package nutrition

import (
	"context"
	"errors"
	"testing"
)

// stubProvider is a scriptable Provider for chain tests.
type stubProvider struct {
	name    string
	records []Record
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(_ context.Context, _ string) ([]Record, error) {
	s.calls++
	return s.records, s.err
}

func TestServiceSearch_FirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "usda", records: []Record{{Name: "Banana", Source: "usda"}}}
	second := &stubProvider{name: "estimate", records: []Record{{Name: "fallback"}}}

	svc, err := NewService(first, second)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	records, err := svc.Search(context.Background(), "banana")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if records[0].Source != "usda" {
		t.Errorf("Source = %q, want usda", records[0].Source)
	}
	if second.calls != 0 {
		t.Error("second provider must not be called when the first resolves")
	}
}

func TestServiceSearch_FallsBackOnError(t *testing.T) {
	first := &stubProvider{name: "usda", err: errors.New("upstream down")}
	second := &stubProvider{name: "estimate", records: []Record{{Name: "chicken (estimated)", Source: "estimate"}}}

	svc, _ := NewService(first, second)

	records, err := svc.Search(context.Background(), "chicken")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if records[0].Source != "estimate" {
		t.Errorf("Source = %q, want estimate", records[0].Source)
	}
}

func TestServiceSearch_FallsBackOnEmpty(t *testing.T) {
	first := &stubProvider{name: "usda"}
	second := &stubProvider{name: "fatsecret", records: []Record{{Name: "Banana", Source: "fatsecret"}}}

	svc, _ := NewService(first, second)

	records, err := svc.Search(context.Background(), "banana")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if records[0].Source != "fatsecret" {
		t.Errorf("Source = %q, want fatsecret", records[0].Source)
	}
}

func TestServiceSearch_AllProvidersFail(t *testing.T) {
	upstreamErr := errors.New("quota exhausted")
	svc, _ := NewService(&stubProvider{name: "usda", err: upstreamErr})

	_, err := svc.Search(context.Background(), "banana")
	if !errors.Is(err, upstreamErr) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

func TestServiceSearch_EmptyQuery(t *testing.T) {
	svc, _ := NewService(&stubProvider{name: "usda"})

	if _, err := svc.Search(context.Background(), "   "); err == nil {
		t.Error("expected error for blank query")
	}
}

func TestNewService_RequiresProvider(t *testing.T) {
	if _, err := NewService(); err == nil {
		t.Error("expected error for empty chain")
	}
}
