package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota tracking.
var (
	quotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "food_quota_remaining",
		Help: "Requests remaining in the current upstream quota window",
	})

	rateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_rate_limit_blocks_total",
		Help: "Total number of requests blocked due to critical quota",
	})

	rateLimitThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_rate_limit_throttles_total",
		Help: "Total number of requests throttled due to low quota",
	})
)

// Tracker monitors upstream quota headers and gates requests.
// With a Redis client the state is shared across instances; without one
// it is kept in-process.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger

	mu    sync.Mutex
	local *QuotaState
}

// NewTracker creates a quota tracker. redisClient may be nil, in which
// case quota state is process-local.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:  redisClient,
		logger: logger,
	}
}

// defaultState is returned until real quota headers have been seen.
func defaultState() *QuotaState {
	return &QuotaState{
		Remaining:   -1,
		WindowReset: nextWindowReset(time.Now()),
		LastUpdate:  time.Now(),
		IsHealthy:   true,
	}
}

// GetState retrieves the current quota state.
func (t *Tracker) GetState(ctx context.Context) (*QuotaState, error) {
	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.local == nil {
			return defaultState(), nil
		}
		state := *t.local
		return &state, nil
	}

	remaining, err := t.redis.Get(ctx, RedisKeyRemaining).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get quota remaining: %w", err)
	}
	if err == redis.Nil {
		t.logger.Debug().Msg("No quota state in Redis, assuming healthy")
		return defaultState(), nil
	}

	limit, err := t.redis.Get(ctx, RedisKeyLimit).Int()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get quota limit: %w", err)
	}

	resetTimestamp, err := t.redis.Get(ctx, RedisKeyWindowReset).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get window reset: %w", err)
	}

	lastUpdateStr, err := t.redis.Get(ctx, RedisKeyLastUpdate).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get last update: %w", err)
	}

	var lastUpdate time.Time
	if lastUpdateStr != "" {
		if err := json.Unmarshal([]byte(lastUpdateStr), &lastUpdate); err != nil {
			return nil, fmt.Errorf("parse last update: %w", err)
		}
	}

	state := &QuotaState{
		Remaining:   remaining,
		Limit:       limit,
		WindowReset: time.Unix(resetTimestamp, 0),
		LastUpdate:  lastUpdate,
	}
	state.UpdateHealth()

	return state, nil
}

// UpdateFromHeaders parses api.data.gov quota headers and stores the state.
// Responses without the headers (TheMealDB, FatSecret) are ignored.
func (t *Tracker) UpdateFromHeaders(ctx context.Context, headers http.Header) error {
	remainStr := headers.Get("X-RateLimit-Remaining")
	if remainStr == "" {
		return nil
	}

	remain, err := strconv.Atoi(remainStr)
	if err != nil {
		return fmt.Errorf("parse X-RateLimit-Remaining header: %w", err)
	}

	limit := 0
	if limitStr := headers.Get("X-RateLimit-Limit"); limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil {
			return fmt.Errorf("parse X-RateLimit-Limit header: %w", err)
		}
	}

	now := time.Now()
	state := &QuotaState{
		Remaining:   remain,
		Limit:       limit,
		WindowReset: nextWindowReset(now),
		LastUpdate:  now,
	}
	state.UpdateHealth()

	if err := t.store(ctx, state); err != nil {
		return err
	}

	quotaRemaining.Set(float64(remain))

	logEvent := t.logger.Info().
		Int("remaining", remain).
		Int("limit", limit).
		Time("window_reset", state.WindowReset).
		Bool("is_healthy", state.IsHealthy)

	if state.NeedsCriticalBlock() {
		logEvent = t.logger.Error().Int("remaining", remain)
		logEvent.Msg("Upstream quota CRITICAL - requests will be blocked")
	} else if state.NeedsThrottling() {
		logEvent = t.logger.Warn().Int("remaining", remain)
		logEvent.Msg("Upstream quota low - requests will be throttled")
	} else {
		logEvent.Msg("Upstream quota state updated")
	}

	return nil
}

// store persists the quota state to Redis, or in-process without Redis.
func (t *Tracker) store(ctx context.Context, state *QuotaState) error {
	if t.redis == nil {
		t.mu.Lock()
		t.local = state
		t.mu.Unlock()
		return nil
	}

	lastUpdateJSON, err := json.Marshal(state.LastUpdate)
	if err != nil {
		return fmt.Errorf("marshal last update: %w", err)
	}

	pipe := t.redis.Pipeline()
	pipe.Set(ctx, RedisKeyRemaining, state.Remaining, 0)
	pipe.Set(ctx, RedisKeyLimit, state.Limit, 0)
	pipe.Set(ctx, RedisKeyWindowReset, state.WindowReset.Unix(), 0)
	pipe.Set(ctx, RedisKeyLastUpdate, lastUpdateJSON, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store quota state in redis: %w", err)
	}
	return nil
}

// ShouldAllowRequest checks if a request should be allowed under the
// current quota. Returns false when the quota is critically low; sleeps
// briefly for throttling when it is merely low.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, fmt.Errorf("get quota state: %w", err)
	}

	if state.NeedsCriticalBlock() {
		t.logger.Error().
			Int("remaining", state.Remaining).
			Dur("wait_duration", state.TimeUntilReset()).
			Msg("Upstream quota critical - blocking request")

		rateLimitBlocksTotal.Inc()
		return false, nil
	}

	if state.NeedsThrottling() {
		t.logger.Warn().
			Int("remaining", state.Remaining).
			Msg("Upstream quota low - throttling request")

		rateLimitThrottlesTotal.Inc()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}

	return true, nil
}
