package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds worker pool configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel lookups.
	MaxConcurrency int
	// Timeout per lookup.
	Timeout time.Duration
}

// DefaultConfig returns safe defaults. The upstream food APIs are free
// tiers, so concurrency stays modest.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        15 * time.Second,
	}
}

// Result holds the outcome of a single keyed lookup.
type Result[T any] struct {
	Key   string
	Value T
	Err   error
}

// Fetcher fans out keyed lookups across a worker pool.
type Fetcher[T any] struct {
	config Config
	fn     func(ctx context.Context, key string) (T, error)
}

// New creates a fetcher that runs fn for each key.
func New[T any](config Config, fn func(ctx context.Context, key string) (T, error)) *Fetcher[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Fetcher[T]{config: config, fn: fn}
}

// FetchAll runs every key through the worker pool and returns results in
// the same order as keys. Individual failures land in Result.Err; the
// returned error is the first failure seen, with successful results still
// populated.
func (f *Fetcher[T]) FetchAll(ctx context.Context, keys []string) ([]Result[T], error) {
	start := time.Now()

	if len(keys) == 0 {
		return nil, nil
	}

	type indexed struct {
		idx int
		key string
	}

	queue := make(chan indexed, len(keys))
	for i, key := range keys {
		queue <- indexed{idx: i, key: key}
	}
	close(queue)

	results := make([]Result[T], len(keys))

	workers := f.config.MaxConcurrency
	if workers > len(keys) {
		workers = len(keys)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for item := range queue {
				select {
				case <-ctx.Done():
					results[item.idx] = Result[T]{Key: item.key, Err: ctx.Err()}
					continue
				default:
				}

				itemCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
				value, err := f.fn(itemCtx, item.key)
				cancel()

				if err != nil {
					log.Warn().
						Err(err).
						Int("worker_id", workerID).
						Str("key", item.key).
						Msg("Batch lookup failed")
				}
				results[item.idx] = Result[T]{Key: item.key, Value: value, Err: err}
			}
		}(w)
	}
	wg.Wait()

	var firstErr error
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
		}
	}

	log.Debug().
		Int("keys", len(keys)).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Batch fetch complete")

	return results, firstErr
}
