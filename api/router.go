package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/use-agent/ogcrawl/api/handler"
	"github.com/use-agent/ogcrawl/api/middleware"
	"github.com/use-agent/ogcrawl/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:    Recovery → RequestID → Logger
//	/crawling: Auth (if enabled) → RateLimit (if configured)
//
// Liveness, health and metrics stay outside auth so probes and scrapers always work.
func NewRouter(d handler.Dispatcher, renders handler.RenderStats, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	r.GET("/", handler.Root())
	r.GET("/health", handler.Health(renders, startTime))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	if cfg.RateLimit.RequestsPerSecond > 0 {
		protected.Use(middleware.RateLimit(cfg.RateLimit))
	}

	protected.GET("/crawling", handler.Crawling(d))

	return r
}
