// Package api exposes the nutrition explorer over HTTP: a JSON API for
// food lookup, recipe search and meal planning, plus a small embedded
// web page that renders results as tables and a macro chart.
package api

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

//go:embed web
var webFS embed.FS

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/nutrition", h.SearchNutrition)
		api.GET("/recipes", h.SearchRecipes)
		api.GET("/mealplan", h.BuildMealPlan)
	}

	web, err := fs.Sub(webFS, "web")
	if err != nil {
		// The embed directive guarantees the subtree exists
		panic(err)
	}
	r.StaticFS("/app", http.FS(web))
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/app/")
	})

	return r
}

// requestLogger logs one line per request in the service's zerolog
// format, replacing gin's default logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
