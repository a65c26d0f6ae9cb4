// Command explorer-mcp serves the nutrition explorer tools over MCP
// stdio, with a local bolt cache so repeated lookups stay off the free
// API quotas.
package main

import (
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/foodatlas/nutrition-explorer/internal/config"
	"github.com/foodatlas/nutrition-explorer/internal/tools"
	"github.com/foodatlas/nutrition-explorer/pkg/cache"
	"github.com/foodatlas/nutrition-explorer/pkg/client"
	"github.com/foodatlas/nutrition-explorer/pkg/logging"
	"github.com/foodatlas/nutrition-explorer/pkg/nutrition"
	"github.com/foodatlas/nutrition-explorer/pkg/ratelimit"
	"github.com/foodatlas/nutrition-explorer/pkg/recipes"
)

func main() {
	// Stdout carries the MCP protocol; logs must stay on stderr
	logging.Setup(logging.Config{Level: logging.LevelWarn, Output: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := openBoltCache()
	if err != nil {
		log.Warn().Err(err).Msg("Bolt cache unavailable, running uncached")
	} else {
		defer store.Close()
	}

	tracker := ratelimit.NewTracker(nil, logging.NewLogger("ratelimit"))

	clientCfg := client.DefaultConfig(cfg.UserAgent)
	clientCfg.CacheTTL = cfg.CacheTTL

	var cacheStore cache.Store
	if store != nil {
		cacheStore = store
	}
	c, err := client.New(clientCfg, cacheStore, tracker)
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
		}, client.DefaultConfig(cfg.UserAgent), cacheStore, nil)
		if err != nil {
			log.Warn().Err(err).Msg("FatSecret provider disabled")
		} else {
			providers = append(providers, fs)
		}
	}
	providers = append(providers, nutrition.NewEstimatesProvider())

	nutritionSvc, err := nutrition.NewService(providers...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create nutrition service")
	}

	recipeSearch := recipes.NewSearcher(
		recipes.NewMealDBProvider(c, recipes.MealDBConfig{BaseURL: cfg.MealDBBaseURL}))

	s := server.NewMCPServer(
		"Nutrition Explorer",
		"1.0.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)
	tools.Register(s, tools.Deps{
		Nutrition: nutritionSvc,
		Recipes:   recipeSearch,
	})

	if err := server.ServeStdio(s); err != nil {
		log.Error().Err(err).Msg("MCP server error")
	}
}

// openBoltCache opens the per-user cache database under the OS cache
// directory.
func openBoltCache() (*cache.BoltStore, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	dir = filepath.Join(dir, "nutrition-explorer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return cache.OpenBolt(filepath.Join(dir, "cache.db"))
}
