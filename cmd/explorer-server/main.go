// Command explorer-server runs the nutrition explorer HTTP service.
package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/foodatlas/nutrition-explorer/internal/config"
	"github.com/foodatlas/nutrition-explorer/pkg/api"
	"github.com/foodatlas/nutrition-explorer/pkg/cache"
	"github.com/foodatlas/nutrition-explorer/pkg/client"
	"github.com/foodatlas/nutrition-explorer/pkg/logging"
	"github.com/foodatlas/nutrition-explorer/pkg/nutrition"
	"github.com/foodatlas/nutrition-explorer/pkg/ratelimit"
	"github.com/foodatlas/nutrition-explorer/pkg/recipes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(logging.Config{Level: logging.LogLevel(cfg.LogLevel)})
	logger := logging.NewLogger("explorer-server")

	store, redisClient, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache store")
	}
	defer store.Close()

	tracker := ratelimit.NewTracker(redisClient, logging.NewLogger("ratelimit"))

	clientCfg := client.DefaultConfig(cfg.UserAgent)
	clientCfg.CacheTTL = cfg.CacheTTL

	c, err := client.New(clientCfg, store, tracker)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create API client")
	}

	providers := []nutrition.Provider{
		nutrition.NewFDCProvider(c, nutrition.FDCConfig{
			BaseURL: cfg.FDCBaseURL,
			APIKey:  cfg.FDCAPIKey,
		}),
	}
	if cfg.FatSecretEnabled() {
		fs, err := nutrition.NewFatSecretProvider(nutrition.FatSecretConfig{
			ClientID:     cfg.FatSecretClientID,
			ClientSecret: cfg.FatSecretClientSecret,
		}, client.DefaultConfig(cfg.UserAgent), store, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create FatSecret provider")
		}
		providers = append(providers, fs)
		logger.Info().Msg("FatSecret provider enabled")
	}
	providers = append(providers, nutrition.NewEstimatesProvider())

	nutritionSvc, err := nutrition.NewService(providers...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create nutrition service")
	}

	recipeSearch := recipes.NewSearcher(
		recipes.NewMealDBProvider(c, recipes.MealDBConfig{BaseURL: cfg.MealDBBaseURL}))

	router := api.NewRouter(api.NewHandler(nutritionSvc, recipeSearch))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info().
		Str("addr", addr).
		Str("cache_backend", cfg.CacheBackend).
		Msg("Starting HTTP server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}
}

// openStore builds the cache store for the configured backend. The redis
// client is returned separately because the quota tracker shares it.
func openStore(cfg config.Config) (cache.Store, *redis.Client, error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		return cache.NewRedisStore(rdb), rdb, nil
	case config.BackendBolt:
		store, err := cache.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return cache.NewMemoryStore(), nil, nil
	}
}
