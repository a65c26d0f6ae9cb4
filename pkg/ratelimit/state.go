// Package ratelimit tracks upstream API quota and gates outgoing requests.
// The USDA endpoints (api.data.gov) report the hourly key quota in the
// X-RateLimit-Limit and X-RateLimit-Remaining response headers; requests
// are throttled as the quota runs low and blocked just before it runs out.
package ratelimit

import (
	"time"
)

// Redis keys for shared quota state.
const (
	RedisKeyRemaining   = "food:rate_limit:remaining"
	RedisKeyLimit       = "food:rate_limit:limit"
	RedisKeyWindowReset = "food:rate_limit:window_reset"
	RedisKeyLastUpdate  = "food:rate_limit:last_update"
)

// Thresholds for quota decisions. The DEMO_KEY quota is only 30 requests
// per hour, so the margins are kept tight.
const (
	// ThresholdCritical blocks all requests when the remaining quota falls
	// below this value, keeping a last couple of requests in reserve.
	ThresholdCritical = 2

	// ThresholdWarning applies throttling when the remaining quota falls
	// below this value.
	ThresholdWarning = 10

	// ThresholdHealthy indicates normal operation.
	ThresholdHealthy = 20
)

// QuotaState represents the current upstream quota window.
type QuotaState struct {
	// Remaining is the number of requests left in the current window,
	// from the X-RateLimit-Remaining header. -1 means unknown.
	Remaining int `json:"remaining"`

	// Limit is the per-window request quota, from X-RateLimit-Limit.
	Limit int `json:"limit"`

	// WindowReset is when the quota window rolls over. api.data.gov does
	// not send a reset header; windows are aligned to the top of the hour.
	WindowReset time.Time `json:"window_reset"`

	// LastUpdate is when this state was last refreshed from headers.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when Remaining is at or above ThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state is older than maxAge.
func (s *QuotaState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked.
// Unknown quota (Remaining < 0) never blocks.
func (s *QuotaState) NeedsCriticalBlock() bool {
	if s.Remaining < 0 || s.WindowRolledOver() {
		return false
	}
	return s.Remaining < ThresholdCritical
}

// NeedsThrottling returns true if requests should be slowed down.
func (s *QuotaState) NeedsThrottling() bool {
	if s.Remaining < 0 || s.WindowRolledOver() {
		return false
	}
	return s.Remaining < ThresholdWarning && !s.NeedsCriticalBlock()
}

// WindowRolledOver returns true once the quota window has reset, at which
// point stale "exhausted" state must not keep blocking requests.
func (s *QuotaState) WindowRolledOver() bool {
	return !s.WindowReset.IsZero() && time.Now().After(s.WindowReset)
}

// TimeUntilReset returns the duration until the quota window resets.
// Returns 0 if the reset time has already passed.
func (s *QuotaState) TimeUntilReset() time.Duration {
	duration := time.Until(s.WindowReset)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field from the current Remaining.
func (s *QuotaState) UpdateHealth() {
	s.IsHealthy = s.Remaining < 0 || s.Remaining >= ThresholdHealthy
}

// nextWindowReset returns the next top-of-hour boundary after now.
func nextWindowReset(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}
