// Package http wires the gin route tree and the server lifecycle for the
// search API.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/patent-prophet/internal/interfaces/http/handlers"
)

// RouterConfig aggregates the handler dependencies for the route tree.
type RouterConfig struct {
	Mode          string // gin mode: "debug" | "release" | "test"
	SearchHandler *handlers.SearchHandler
	HealthHandler *handlers.HealthHandler
	Registry      *prometheus.Registry
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", cfg.HealthHandler.Healthz)
	if cfg.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/patents/search", cfg.SearchHandler.Search)
	}

	return router
}
