package nutrition

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apiclient "github.com/foodatlas/nutrition-explorer/pkg/client"
)

// DefaultFDCBaseURL is the USDA FoodData Central API root.
const DefaultFDCBaseURL = "https://api.nal.usda.gov/fdc/v1"

// DemoAPIKey works without registration but shares a tiny hourly quota
// across all anonymous api.data.gov users.
const DemoAPIKey = "DEMO_KEY"

// FDCConfig holds the USDA provider configuration.
type FDCConfig struct {
	BaseURL  string
	APIKey   string
	PageSize int
}

// FDCProvider queries the USDA FoodData Central search endpoint.
type FDCProvider struct {
	client *apiclient.Client
	config FDCConfig
	logger zerolog.Logger
}

// NewFDCProvider creates the USDA provider. Zero-value config fields fall
// back to the public defaults.
func NewFDCProvider(client *apiclient.Client, config FDCConfig) *FDCProvider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultFDCBaseURL
	}
	if config.APIKey == "" {
		config.APIKey = DemoAPIKey
	}
	if config.PageSize <= 0 {
		config.PageSize = 3
	}
	return &FDCProvider{
		client: client,
		config: config,
		logger: log.With().Str("component", "fdc-provider").Logger(),
	}
}

// Name implements Provider.
func (p *FDCProvider) Name() string { return "usda" }

// fdcSearchResponse mirrors the subset of the FDC search payload we read.
type fdcSearchResponse struct {
	TotalHits int       `json:"totalHits"`
	Foods     []fdcFood `json:"foods"`
}

type fdcFood struct {
	Description   string        `json:"description"`
	BrandOwner    string        `json:"brandOwner"`
	FoodNutrients []fdcNutrient `json:"foodNutrients"`
}

type fdcNutrient struct {
	NutrientName string  `json:"nutrientName"`
	Value        float64 `json:"value"`
	UnitName     string  `json:"unitName"`
}

// Search implements Provider. It returns one Record per food in the
// response page, in upstream order.
func (p *FDCProvider) Search(ctx context.Context, query string) ([]Record, error) {
	params := url.Values{
		"query":    {query},
		"pageSize": {strconv.Itoa(p.config.PageSize)},
		"api_key":  {p.config.APIKey},
	}

	var resp fdcSearchResponse
	if err := p.client.GetJSON(ctx, p.Name(), p.config.BaseURL+"/foods/search", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Foods) == 0 {
		p.logger.Debug().Str("query", query).Msg("No USDA results")
		return nil, nil
	}

	records := make([]Record, 0, len(resp.Foods))
	for _, food := range resp.Foods {
		records = append(records, Record{
			Name:     food.Description,
			Brand:    food.BrandOwner,
			Source:   p.Name(),
			Calories: pickNutrient(food.FoodNutrients, matchEnergy),
			Protein:  pickNutrient(food.FoodNutrients, matchName("protein")),
			Carbs:    pickNutrient(food.FoodNutrients, matchAll("carbohydrate", "difference")),
			Fat:      pickNutrient(food.FoodNutrients, matchFat),
			Fiber:    pickNutrient(food.FoodNutrients, matchName("fiber")),
			Sugar:    pickNutrient(food.FoodNutrients, matchAll("sugars", "total")),
			Sodium:   pickNutrient(food.FoodNutrients, matchName("sodium")),
		})
	}

	p.logger.Debug().
		Str("query", query).
		Int("results", len(records)).
		Int("total_hits", resp.TotalHits).
		Msg("USDA search complete")

	return records, nil
}

// pickNutrient returns the value of the first nutrient matching the
// predicate, or 0 when absent. FDC reports per-100g values for the
// survey and branded data types we query.
func pickNutrient(nutrients []fdcNutrient, match func(fdcNutrient) bool) float64 {
	for _, n := range nutrients {
		if match(n) {
			return n.Value
		}
	}
	return 0
}

// matchEnergy only accepts the kcal energy entry; FDC also reports
// energy in kJ under the same nutrient name.
func matchEnergy(n fdcNutrient) bool {
	return strings.Contains(strings.ToLower(n.NutrientName), "energy") &&
		strings.EqualFold(n.UnitName, "kcal")
}

func matchFat(n fdcNutrient) bool {
	name := strings.ToLower(n.NutrientName)
	if strings.Contains(name, "total lipid") {
		return true
	}
	return strings.Contains(name, "fat") && strings.Contains(name, "total")
}

func matchName(sub string) func(fdcNutrient) bool {
	return func(n fdcNutrient) bool {
		return strings.Contains(strings.ToLower(n.NutrientName), sub)
	}
}

func matchAll(subs ...string) func(fdcNutrient) bool {
	return func(n fdcNutrient) bool {
		name := strings.ToLower(n.NutrientName)
		for _, sub := range subs {
			if !strings.Contains(name, sub) {
				return false
			}
		}
		return true
	}
}
