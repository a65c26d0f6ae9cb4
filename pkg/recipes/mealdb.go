package recipes

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apiclient "github.com/foodatlas/nutrition-explorer/pkg/client"
)

// DefaultMealDBBaseURL is the free TheMealDB API root. The "1" path
// segment is the public developer API key.
const DefaultMealDBBaseURL = "https://www.themealdb.com/api/json/v1/1"

// maxIngredientSlots is how many strIngredientN columns a meal carries.
const maxIngredientSlots = 20

// MealDBConfig holds the TheMealDB provider configuration.
type MealDBConfig struct {
	BaseURL string
}

// MealDBProvider queries TheMealDB name-search endpoint.
type MealDBProvider struct {
	client *apiclient.Client
	config MealDBConfig
	logger zerolog.Logger
}

// NewMealDBProvider creates the TheMealDB provider.
func NewMealDBProvider(client *apiclient.Client, config MealDBConfig) *MealDBProvider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultMealDBBaseURL
	}
	return &MealDBProvider{
		client: client,
		config: config,
		logger: log.With().Str("component", "mealdb-provider").Logger(),
	}
}

// mealDBResponse holds the raw search payload. Meals are kept as loose
// maps because the ingredient data lives in twenty numbered columns.
type mealDBResponse struct {
	Meals []map[string]any `json:"meals"`
}

// SearchByName returns meals whose name matches term. TheMealDB returns
// a JSON null meals field for no matches, which decodes to an empty
// slice here.
func (p *MealDBProvider) SearchByName(ctx context.Context, term string) ([]Recipe, error) {
	params := url.Values{"s": {term}}

	var resp mealDBResponse
	if err := p.client.GetJSON(ctx, "mealdb", p.config.BaseURL+"/search.php", params, &resp); err != nil {
		return nil, err
	}

	recipes := make([]Recipe, 0, len(resp.Meals))
	for _, meal := range resp.Meals {
		recipes = append(recipes, mapMeal(meal))
	}

	p.logger.Debug().
		Str("term", term).
		Int("results", len(recipes)).
		Msg("MealDB search complete")

	return recipes, nil
}

// mapMeal flattens one raw meal object into a Recipe.
func mapMeal(meal map[string]any) Recipe {
	r := Recipe{
		ID:           mealStr(meal, "idMeal"),
		Name:         mealStr(meal, "strMeal"),
		Category:     mealStr(meal, "strCategory"),
		Area:         mealStr(meal, "strArea"),
		Instructions: mealStr(meal, "strInstructions"),
		Image:        mealStr(meal, "strMealThumb"),
		YouTube:      mealStr(meal, "strYoutube"),
	}

	if tags := mealStr(meal, "strTags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				r.Tags = append(r.Tags, tag)
			}
		}
	}

	for i := 1; i <= maxIngredientSlots; i++ {
		ingredient := strings.TrimSpace(mealStr(meal, fmt.Sprintf("strIngredient%d", i)))
		if ingredient == "" {
			continue
		}
		measure := strings.TrimSpace(mealStr(meal, fmt.Sprintf("strMeasure%d", i)))
		if measure != "" {
			r.Ingredients = append(r.Ingredients, measure+" "+ingredient)
		} else {
			r.Ingredients = append(r.Ingredients, ingredient)
		}
	}

	return r
}

// mealStr reads a string column, tolerating JSON nulls.
func mealStr(meal map[string]any, key string) string {
	if v, ok := meal[key].(string); ok {
		return v
	}
	return ""
}
