// Package testutil provides a fake upstream food API server for tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
)

// Canned upstream payloads.
const (
	FDCBananaJSON = `{
	"totalHits": 1,
	"foods": [
		{
			"description": "Banana, raw",
			"foodNutrients": [
				{"nutrientName": "Energy", "value": 89, "unitName": "KCAL"},
				{"nutrientName": "Protein", "value": 1.1, "unitName": "G"},
				{"nutrientName": "Carbohydrate, by difference", "value": 22.8, "unitName": "G"},
				{"nutrientName": "Total lipid (fat)", "value": 0.3, "unitName": "G"}
			]
		}
	]
}`

	MealDBChickenJSON = `{
	"meals": [
		{
			"idMeal": "52940",
			"strMeal": "Brown Stew Chicken",
			"strCategory": "Chicken",
			"strArea": "Jamaican",
			"strIngredient1": "Chicken",
			"strMeasure1": "1 whole"
		}
	]
}`
)

// Upstream is a fake server answering both FDC and MealDB routes with
// canned payloads and api.data.gov quota headers.
type Upstream struct {
	Server *httptest.Server

	// QuotaRemaining is echoed in X-RateLimit-Remaining. Negative
	// disables the header.
	QuotaRemaining atomic.Int64

	fdcRequests    atomic.Int64
	mealDBRequests atomic.Int64
}

// NewUpstream starts the fake upstream. Callers own the shutdown via
// Close.
func NewUpstream() *Upstream {
	u := &Upstream{}
	u.QuotaRemaining.Store(950)

	mux := http.NewServeMux()
	mux.HandleFunc("/foods/search", func(w http.ResponseWriter, r *http.Request) {
		u.fdcRequests.Add(1)
		u.writeQuotaHeaders(w)
		w.Write([]byte(FDCBananaJSON))
	})
	mux.HandleFunc("/search.php", func(w http.ResponseWriter, r *http.Request) {
		u.mealDBRequests.Add(1)
		if r.URL.Query().Get("s") == "" {
			w.Write([]byte(`{"meals": null}`))
			return
		}
		w.Write([]byte(MealDBChickenJSON))
	})

	u.Server = httptest.NewServer(mux)
	return u
}

// URL returns the base URL of the fake upstream.
func (u *Upstream) URL() string { return u.Server.URL }

// Close shuts the server down.
func (u *Upstream) Close() { u.Server.Close() }

// FDCRequests returns how many FDC search requests were served.
func (u *Upstream) FDCRequests() int64 { return u.fdcRequests.Load() }

// MealDBRequests returns how many MealDB search requests were served.
func (u *Upstream) MealDBRequests() int64 { return u.mealDBRequests.Load() }

func (u *Upstream) writeQuotaHeaders(w http.ResponseWriter) {
	remaining := u.QuotaRemaining.Load()
	if remaining < 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", "1000")
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
}
