package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    1 * time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryWithBackoff_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), zerolog.Nop(), func() error {
		calls++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_SuccessAfterRetry(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), zerolog.Nop(), func() error {
		calls++
		if calls < 3 {
			return &APIError{StatusCode: 503, Class: ErrorClassServer, Message: "unavailable"}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), zerolog.Nop(), func() error {
		calls++
		return &NetworkError{URL: "http://example.com", Err: errors.New("timeout")}
	})

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("expected ErrRetryExhausted, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryWithBackoff_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	apiErr := &APIError{StatusCode: 404, Class: ErrorClassClient, Message: "not found"}
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), zerolog.Nop(), func() error {
		calls++
		return apiErr
	})

	if !errors.Is(err, error(apiErr)) {
		t.Errorf("expected the APIError back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (4xx must not be retried)", calls)
	}
}

func TestRetryWithBackoff_DataErrorNotRetried(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetryConfig(3), zerolog.Nop(), func() error {
		calls++
		return &DataError{Provider: "usda", Message: "malformed JSON"}
	})

	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Errorf("expected DataError back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (data errors must not be retried)", calls)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        time.Second,
		BackoffMultiplier: 2.0,
	}

	calls := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- retryWithBackoff(ctx, cfg, zerolog.Nop(), func() error {
			calls++
			return &NetworkError{URL: "x", Err: errors.New("timeout")}
		})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrContextCancelled) {
			t.Errorf("expected ErrContextCancelled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not stop after context cancellation")
	}
}
