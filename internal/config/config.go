// Package config loads service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBolt   = "bolt"
)

// Config holds the full service configuration.
type Config struct {
	// HTTP server
	Port     int
	LogLevel string

	// Cache
	CacheBackend string
	CacheTTL     time.Duration
	RedisAddr    string
	RedisDB      int
	BoltPath     string

	// Upstream APIs
	UserAgent     string
	FDCBaseURL    string
	FDCAPIKey     string
	MealDBBaseURL string

	// FatSecret (optional; provider is skipped without credentials)
	FatSecretClientID     string
	FatSecretClientSecret string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("Failed to load .env file")
		}
	}

	cfg := Config{
		Port:          envInt("PORT", 8080),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		CacheBackend:  strings.ToLower(envStr("CACHE_BACKEND", BackendMemory)),
		CacheTTL:      envDuration("CACHE_TTL", time.Hour),
		RedisAddr:     envStr("REDIS_ADDR", "localhost:6379"),
		RedisDB:       envInt("REDIS_DB", 0),
		BoltPath:      envStr("BOLT_PATH", "nutrition-cache.db"),
		UserAgent:     envStr("USER_AGENT", "nutrition-explorer/1.0"),
		FDCBaseURL:    envStr("FDC_BASE_URL", "https://api.nal.usda.gov/fdc/v1"),
		FDCAPIKey:     envStr("FDC_API_KEY", "DEMO_KEY"),
		MealDBBaseURL: envStr("MEALDB_BASE_URL", "https://www.themealdb.com/api/json/v1/1"),

		FatSecretClientID:     envStr("FATSECRET_CLIENT_ID", ""),
		FatSecretClientSecret: envStr("FATSECRET_CLIENT_SECRET", ""),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.CacheBackend {
	case BackendMemory, BackendRedis, BackendBolt:
	default:
		return fmt.Errorf("unknown cache backend %q (want memory, redis or bolt)", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %v", c.CacheTTL)
	}
	return nil
}

// FatSecretEnabled reports whether FatSecret credentials are configured.
func (c Config) FatSecretEnabled() bool {
	return c.FatSecretClientID != "" && c.FatSecretClientSecret != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid integer in environment, using default")
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Bare numbers are treated as seconds, matching common TTL envs
		if secs, serr := strconv.Atoi(v); serr == nil {
			return time.Duration(secs) * time.Second
		}
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid duration in environment, using default")
		return fallback
	}
	return d
}
