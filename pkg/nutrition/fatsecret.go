package nutrition

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/clientcredentials"

	apiclient "github.com/foodatlas/nutrition-explorer/pkg/client"
	"github.com/foodatlas/nutrition-explorer/pkg/cache"
	"github.com/foodatlas/nutrition-explorer/pkg/ratelimit"
)

// FatSecret platform endpoints.
const (
	DefaultFatSecretBaseURL  = "https://platform.fatsecret.com/rest/server.api"
	DefaultFatSecretTokenURL = "https://oauth.fatsecret.com/connect/token"
)

// FatSecretConfig holds the FatSecret provider configuration.
type FatSecretConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	MaxResults   int
}

// FatSecretProvider queries the FatSecret platform API using OAuth2
// client credentials.
type FatSecretProvider struct {
	client *apiclient.Client
	config FatSecretConfig
	logger zerolog.Logger
}

// NewFatSecretProvider creates the FatSecret provider. The OAuth2 token
// flow runs through an oauth2-aware HTTP client that refreshes bearer
// tokens transparently.
func NewFatSecretProvider(cfg FatSecretConfig, clientCfg apiclient.Config, store cache.Store, tracker *ratelimit.Tracker) (*FatSecretProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultFatSecretBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultFatSecretTokenURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 3
	}

	oauthCfg := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{"basic"},
	}
	clientCfg.HTTPClient = oauthCfg.Client(context.Background())

	c, err := apiclient.New(clientCfg, store, tracker)
	if err != nil {
		return nil, err
	}

	return &FatSecretProvider{
		client: c,
		config: cfg,
		logger: log.With().Str("component", "fatsecret-provider").Logger(),
	}, nil
}

// Name implements Provider.
func (p *FatSecretProvider) Name() string { return "fatsecret" }

type fatSecretSearchResponse struct {
	Foods struct {
		// Food is an array for multiple hits but a bare object for a
		// single hit.
		Food json.RawMessage `json:"food"`
	} `json:"foods"`
}

type fatSecretFood struct {
	FoodName        string `json:"food_name"`
	BrandName       string `json:"brand_name"`
	FoodDescription string `json:"food_description"`
}

// Search implements Provider.
func (p *FatSecretProvider) Search(ctx context.Context, query string) ([]Record, error) {
	params := url.Values{
		"method":            {"foods.search"},
		"search_expression": {query},
		"max_results":       {strconv.Itoa(p.config.MaxResults)},
		"format":            {"json"},
	}

	var resp fatSecretSearchResponse
	if err := p.client.GetJSON(ctx, p.Name(), p.config.BaseURL, params, &resp); err != nil {
		return nil, err
	}

	foods, err := decodeFatSecretFoods(resp.Foods.Food)
	if err != nil {
		return nil, &apiclient.DataError{
			Provider: p.Name(),
			Message:  "unexpected foods payload shape",
			Err:      err,
		}
	}
	if len(foods) == 0 {
		p.logger.Debug().Str("query", query).Msg("No FatSecret results")
		return nil, nil
	}

	records := make([]Record, 0, len(foods))
	for _, food := range foods {
		rec := parseFoodDescription(food.FoodDescription)
		rec.Name = food.FoodName
		rec.Brand = food.BrandName
		rec.Source = p.Name()
		records = append(records, rec)
	}

	p.logger.Debug().
		Str("query", query).
		Int("results", len(records)).
		Msg("FatSecret search complete")

	return records, nil
}

func decodeFatSecretFoods(raw json.RawMessage) ([]fatSecretFood, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var many []fatSecretFood
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}

	var one fatSecretFood
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []fatSecretFood{one}, nil
}

// descRe pulls labeled values out of strings like
// "Per 100g - Calories: 89kcal | Fat: 0.33g | Carbs: 22.84g | Protein: 1.10g".
var descRe = regexp.MustCompile(`(?i)(calories|fat|carbs|protein|fiber|sugar|sodium):\s*([\d.]+)`)

// parseFoodDescription extracts the macro values FatSecret packs into
// its free-text description line.
func parseFoodDescription(desc string) Record {
	var rec Record
	for _, m := range descRe.FindAllStringSubmatch(desc, -1) {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(m[1]) {
		case "calories":
			rec.Calories = value
		case "fat":
			rec.Fat = value
		case "carbs":
			rec.Carbs = value
		case "protein":
			rec.Protein = value
		case "fiber":
			rec.Fiber = value
		case "sugar":
			rec.Sugar = value
		case "sodium":
			rec.Sodium = value
		}
	}
	return rec
}
