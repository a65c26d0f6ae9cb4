// Package client provides the core HTTP client for upstream food APIs,
// with TTL caching, quota gating, retry and error classification.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/foodatlas/nutrition-explorer/pkg/cache"
	"github.com/foodatlas/nutrition-explorer/pkg/ratelimit"
)

// Prometheus metrics for upstream API operations.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_api_requests_total",
		Help: "Total upstream API requests by provider and status",
	}, []string{"provider", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "food_api_request_duration_seconds",
		Help:    "Upstream API request duration in seconds by provider",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"provider"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_api_errors_total",
		Help: "Total upstream API errors by class",
	}, []string{"class"})
)

// Client is the caching HTTP client shared by all API providers.
type Client struct {
	httpClient *http.Client
	store      cache.Store
	tracker    *ratelimit.Tracker
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// User-Agent header sent with every request.
	UserAgent string

	// HTTPClient overrides the default transport, e.g. an OAuth2 client
	// that injects bearer tokens. Optional.
	HTTPClient *http.Client

	// Timeout per request when HTTPClient is not supplied.
	Timeout time.Duration

	// CacheTTL is how long successful responses stay cached.
	CacheTTL time.Duration

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration
}

// DefaultConfig returns a safe default configuration. The one-hour cache
// TTL matches how often the upstream food databases meaningfully change.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent:      userAgent,
		Timeout:        10 * time.Second,
		CacheTTL:       1 * time.Hour,
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
	}
}

// New creates a new API client. store may be nil to disable caching;
// tracker may be nil to disable quota gating.
func New(cfg Config, store cache.Store, tracker *ratelimit.Tracker) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("cache TTL must not be negative (got %v)", cfg.CacheTTL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		store:      store,
		tracker:    tracker,
		config:     cfg,
		logger:     log.With().Str("component", "api-client").Logger(),
	}, nil
}

// GetBytes performs a cached GET against rawURL with the given query
// parameters and returns the raw response body. provider labels the cache
// key and metrics.
func (c *Client) GetBytes(ctx context.Context, provider, rawURL string, params url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}

	query := u.Query()
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	u.RawQuery = query.Encode()

	startTime := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(provider).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check cache
	key := cache.CacheKey{
		Provider:    provider,
		Endpoint:    u.Path,
		QueryParams: cacheableParams(query),
	}

	if c.store != nil {
		entry, err := c.store.Get(ctx, key)
		if err == nil {
			c.logger.Debug().
				Str("provider", provider).
				Str("endpoint", u.Path).
				Dur("age", entry.Age()).
				Msg("Cache hit")
			apiRequestsTotal.WithLabelValues(provider, "cached").Inc()
			return entry.Data, nil
		}
		if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("provider", provider).Msg("Cache get error")
		}
	}

	// Step 2: Check quota
	if c.tracker != nil {
		allowed, err := c.tracker.ShouldAllowRequest(ctx)
		if err != nil {
			c.logger.Error().Err(err).Msg("Quota check failed")
			return nil, fmt.Errorf("quota check: %w", err)
		}
		if !allowed {
			c.logger.Warn().
				Str("provider", provider).
				Str("endpoint", u.Path).
				Msg("Request blocked by quota gate")
			apiRequestsTotal.WithLabelValues(provider, "quota_blocked").Inc()
			return nil, ErrQuotaExhausted
		}
	}

	// Step 3: Execute with retry
	c.logger.Debug().
		Str("provider", provider).
		Str("endpoint", u.Path).
		Msg("Executing upstream request")

	retryCfg := DefaultRetryConfig()
	if c.config.MaxRetries > 0 {
		retryCfg.MaxAttempts = c.config.MaxRetries
	}
	if c.config.InitialBackoff > 0 {
		retryCfg.InitialBackoff = c.config.InitialBackoff
	}

	var body []byte
	retryErr := retryWithBackoff(ctx, retryCfg, c.logger, func() error {
		var attemptErr error
		body, attemptErr = c.doOnce(ctx, provider, u.String())
		return attemptErr
	})
	if retryErr != nil {
		return nil, retryErr
	}

	// Step 4: Update cache
	if c.store != nil && c.config.CacheTTL > 0 {
		entry := cache.NewEntry(body, http.StatusOK, c.config.CacheTTL)
		if err := c.store.Set(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("provider", provider).
				Str("endpoint", u.Path).
				Dur("ttl", entry.TTL()).
				Msg("Cached response")
		}
	}

	return body, nil
}

// GetJSON performs a cached GET and unmarshals the JSON response into out.
// A body that fails to parse yields a DataError.
func (c *Client) GetJSON(ctx context.Context, provider, rawURL string, params url.Values, out any) error {
	body, err := c.GetBytes(ctx, provider, rawURL, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		apiErrorsTotal.WithLabelValues(string(ErrorClassData)).Inc()
		return &DataError{
			Provider: provider,
			Message:  "malformed JSON response",
			Err:      err,
		}
	}
	return nil
}

// doOnce executes a single HTTP attempt.
func (c *Client) doOnce(ctx context.Context, provider, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("provider", provider).Msg("HTTP request failed")
		apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		apiRequestsTotal.WithLabelValues(provider, "network_error").Inc()
		return nil, &NetworkError{URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	// Quota headers arrive on every USDA response, error or not
	if c.tracker != nil {
		if err := c.tracker.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update quota from headers")
		}
	}

	apiRequestsTotal.WithLabelValues(provider, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		errClass := classifyStatus(resp.StatusCode)
		apiErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("provider", provider).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Upstream request error")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Class:      errClass,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &NetworkError{URL: fullURL, Err: err}
	}
	return body, nil
}

// cacheableParams strips credential parameters so the cache is partitioned
// by query, not by key, and secrets never land in cache keys.
func cacheableParams(params url.Values) url.Values {
	out := url.Values{}
	for key, values := range params {
		switch key {
		case "api_key", "app_key", "app_id":
			continue
		}
		out[key] = values
	}
	return out
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
