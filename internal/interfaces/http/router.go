// Package http assembles the gin route tree and the HTTP server for
// crystal-api.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/prometheus"
	"github.com/gemmology-dev/crystal-api/internal/interfaces/http/handlers"
	"github.com/gemmology-dev/crystal-api/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required to
// construct the complete route tree.
type RouterConfig struct {
	CrystalHandler *handlers.CrystalHandler
	HealthHandler  *handlers.HealthHandler

	CORS        middleware.CORSConfig
	RateLimiter *middleware.RateLimiter // nil disables rate limiting

	Metrics *prometheus.Metrics
	Logger  logging.Logger
	Mode    string // gin mode: "debug" | "release" | "test"
}

// NewRouter constructs the gin engine: global middleware (recovery, request
// ID, CORS, logging), public health and metrics endpoints, and the /api route
// group, which alone carries the rate limiter.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))

	// Public probes and metrics, exempt from rate limiting.
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Handler())
	}
	if cfg.CrystalHandler != nil {
		api.POST("/validate", cfg.CrystalHandler.Validate)
		api.POST("/render", cfg.CrystalHandler.Render)
		api.GET("/render", cfg.CrystalHandler.Render)
		api.POST("/export/stl", cfg.CrystalHandler.ExportSTL)
		api.POST("/export/gltf", cfg.CrystalHandler.ExportGLTF)
	}

	return r
}
