package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by store backend.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"store"}, // "memory", "redis", "bolt"
	)

	// CacheMisses tracks cache misses by store backend, including
	// lazy-expired entries.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"store"},
	)

	// CacheSize tracks bytes written to the cache by store backend.
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "food_cache_size_bytes",
			Help: "Bytes written to the response cache",
		},
		[]string{"store"},
	)

	// CacheErrors tracks cache operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
