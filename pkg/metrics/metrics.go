// Package metrics provides the centralized Prometheus metrics registry.
// All metrics are defined in their respective packages (client, cache,
// ratelimit, nutrition, recipes) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer. All metrics are
// automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Quota Metrics (pkg/ratelimit):
//   - food_quota_remaining (Gauge): Requests remaining in the current api.data.gov window
//   - food_rate_limit_blocks_total (Counter): Requests blocked because the quota ran out
//   - food_rate_limit_throttles_total (Counter): Requests throttled while the quota runs low
//
// Cache Metrics (pkg/cache):
//   - food_cache_hits_total{store} (Counter): Cache hits by store backend
//   - food_cache_misses_total{store} (Counter): Cache misses by store backend
//   - food_cache_size_bytes{store} (Gauge): Current cache size in bytes
//   - food_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - food_api_requests_total{provider, status} (Counter): Upstream requests by provider and status
//   - food_api_request_duration_seconds{provider} (Histogram): Request duration by provider
//   - food_api_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network, data)
//
// Retry Metrics (pkg/client):
//   - food_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - food_api_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - food_api_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Domain Metrics (pkg/nutrition, pkg/recipes):
//   - food_nutrition_lookups_total{provider} (Counter): Nutrition lookups by resolving provider
//   - food_recipe_searches_total{outcome} (Counter): Recipe searches by outcome (ok, empty, error)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate per store
//   sum by (store) (rate(food_cache_hits_total[5m])) /
//   (sum by (store) (rate(food_cache_hits_total[5m])) + sum by (store) (rate(food_cache_misses_total[5m])))
//
//   # Quota Status
//   food_quota_remaining < 10
//
//   # Request Error Rate
//   rate(food_api_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(food_api_request_duration_seconds_bucket[5m]))
//
//   # Share of lookups answered by the offline estimates table
//   rate(food_nutrition_lookups_total{provider="estimate"}[5m]) /
//   sum(rate(food_nutrition_lookups_total[5m]))
