package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apiclient "github.com/foodatlas/nutrition-explorer/pkg/client"
	"github.com/foodatlas/nutrition-explorer/pkg/logging"
	"github.com/foodatlas/nutrition-explorer/pkg/mealplan"
	"github.com/foodatlas/nutrition-explorer/pkg/nutrition"
	"github.com/foodatlas/nutrition-explorer/pkg/recipes"
)

// Handler holds the services behind the HTTP API.
type Handler struct {
	nutrition *nutrition.Service
	recipes   *recipes.Searcher
	logger    zerolog.Logger
}

// NewHandler wires the services into an HTTP handler set.
func NewHandler(nutritionSvc *nutrition.Service, recipeSearch *recipes.Searcher) *Handler {
	return &Handler{
		nutrition: nutritionSvc,
		recipes:   recipeSearch,
		logger:    logging.NewLogger("api"),
	}
}

// nutritionResult pairs a record with its macro calorie split so the web
// page can draw the chart without re-deriving it.
type nutritionResult struct {
	nutrition.Record
	Macros nutrition.MacroBreakdown `json:"macros"`
}

// SearchNutrition handles GET /api/nutrition?q=<food>.
func (h *Handler) SearchNutrition(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	records, err := h.nutrition.Search(c.Request.Context(), query)
	if err != nil {
		h.renderError(c, err)
		return
	}

	results := make([]nutritionResult, 0, len(records))
	for _, rec := range records {
		results = append(results, nutritionResult{Record: rec, Macros: rec.Macros()})
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

// SearchRecipes handles GET /api/recipes?ingredients=a,b,c.
func (h *Handler) SearchRecipes(c *gin.Context) {
	raw := c.Query("ingredients")
	ingredients := strings.Split(raw, ",")

	found, err := h.recipes.Search(c.Request.Context(), ingredients)
	if err != nil {
		if errors.Is(err, recipes.ErrNoIngredients) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients, "results": found})
}

// BuildMealPlan handles GET /api/mealplan?calories=<n>&diet=<pref>.
func (h *Handler) BuildMealPlan(c *gin.Context) {
	calories, err := strconv.ParseFloat(c.DefaultQuery("calories", "2000"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "calories must be a number"})
		return
	}

	pref, err := mealplan.ParsePreference(c.Query("diet"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := mealplan.Build(calories, pref)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// renderError maps service errors to HTTP responses. Upstream trouble is
// a 502 so callers can tell our failures from the food APIs' failures.
func (h *Handler) renderError(c *gin.Context, err error) {
	h.logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")

	switch {
	case errors.Is(err, apiclient.ErrQuotaExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "upstream API quota exhausted, try again later",
		})
	case apiclient.Classify(err) == apiclient.ErrorClassData:
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "upstream API returned malformed data",
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "upstream API unavailable",
		})
	}
}
