package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey identifies a cached API response. A key maps to exactly one
// upstream query: same provider, same endpoint, same parameters.
type CacheKey struct {
	// Provider is the upstream API name (e.g. "usda", "mealdb").
	Provider string

	// Endpoint is the request path (e.g. "/v1/foods/search").
	Endpoint string

	// QueryParams are the request query parameters.
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: food:provider:endpoint:param1=val1:param2=val2
//
// Example:
//
//	food:usda:v1/foods/search:pageSize=3:query=banana
func (k CacheKey) String() string {
	parts := []string{"food"}

	if k.Provider != "" {
		parts = append(parts, k.Provider)
	}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		// All values per param, so a=1&a=2 and a=1 stay distinct keys.
		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(k.QueryParams[key], ",")))
		}
	}

	return strings.Join(parts, ":")
}
