package nutrition

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "food_nutrition_lookups_total",
	Help: "Total nutrition lookups by resolving provider",
}, []string{"provider"})

// Provider resolves a food query to nutrition records.
type Provider interface {
	// Name labels the provider in records, logs and metrics.
	Name() string

	// Search returns per-100g records for the query, in upstream order.
	// An empty slice with nil error means the provider had no match.
	Search(ctx context.Context, query string) ([]Record, error)
}

// Service chains providers so that upstream failures degrade to the next
// provider instead of surfacing to the caller.
type Service struct {
	providers []Provider
	logger    zerolog.Logger
}

// NewService builds the lookup chain. Providers are tried in order; the
// chain should end with the estimates provider so lookups always resolve.
func NewService(providers ...Provider) (*Service, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("at least one provider is required")
	}
	return &Service{
		providers: providers,
		logger:    log.With().Str("component", "nutrition-service").Logger(),
	}, nil
}

// Search resolves the query through the provider chain. The last
// provider's error is returned only if every provider fails.
func (s *Service) Search(ctx context.Context, query string) ([]Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	var lastErr error
	for _, p := range s.providers {
		records, err := p.Search(ctx, query)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("provider", p.Name()).
				Str("query", query).
				Msg("Provider failed, trying next")
			lastErr = err
			continue
		}
		if len(records) == 0 {
			s.logger.Debug().
				Str("provider", p.Name()).
				Str("query", query).
				Msg("Provider had no match, trying next")
			continue
		}

		lookupsTotal.WithLabelValues(p.Name()).Inc()
		return records, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all nutrition providers failed: %w", lastErr)
	}
	return nil, nil
}
