package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/foodatlas/nutrition-explorer/pkg/batch"
)

// Search limits. The free MealDB tier has no ingredient-intersection
// endpoint, so searches fan out per ingredient and merge.
const (
	MaxIngredients       = 3
	RecipesPerIngredient = 4
	MaxTotalRecipes      = 12
)

// ErrNoIngredients is returned when a search has no usable ingredients.
var ErrNoIngredients = errors.New("at least one ingredient is required")

var searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "food_recipe_searches_total",
	Help: "Total recipe searches by outcome",
}, []string{"outcome"})

// Searcher merges per-ingredient MealDB lookups into one deduped list.
type Searcher struct {
	provider *MealDBProvider
	fetcher  *batch.Fetcher[[]Recipe]
	logger   zerolog.Logger
}

// NewSearcher creates a recipe searcher backed by the given provider.
func NewSearcher(provider *MealDBProvider) *Searcher {
	s := &Searcher{
		provider: provider,
		logger:   log.With().Str("component", "recipe-search").Logger(),
	}
	s.fetcher = batch.New(batch.DefaultConfig(), func(ctx context.Context, ingredient string) ([]Recipe, error) {
		return provider.SearchByName(ctx, ingredient)
	})
	return s
}

// Search looks up recipes for up to MaxIngredients ingredients in
// parallel. Results keep ingredient order, drop duplicate meals and cap
// at MaxTotalRecipes. Extra ingredients beyond the limit are ignored.
func (s *Searcher) Search(ctx context.Context, ingredients []string) ([]Recipe, error) {
	cleaned := make([]string, 0, MaxIngredients)
	for _, ing := range ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
		if len(cleaned) == MaxIngredients {
			break
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrNoIngredients
	}

	results, err := s.fetcher.FetchAll(ctx, cleaned)

	seen := make(map[string]bool)
	merged := make([]Recipe, 0, MaxTotalRecipes)
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		taken := 0
		for _, recipe := range result.Value {
			if taken == RecipesPerIngredient || len(merged) == MaxTotalRecipes {
				break
			}
			if seen[recipe.ID] {
				continue
			}
			seen[recipe.ID] = true
			merged = append(merged, recipe)
			taken++
		}
	}

	// Partial results beat a hard failure; error out only when every
	// ingredient lookup failed.
	if len(merged) == 0 && err != nil {
		searchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recipe search failed: %w", err)
	}

	outcome := "ok"
	if len(merged) == 0 {
		outcome = "empty"
	}
	searchesTotal.WithLabelValues(outcome).Inc()

	s.logger.Debug().
		Strs("ingredients", cleaned).
		Int("results", len(merged)).
		Msg("Recipe search complete")

	return merged, nil
}
