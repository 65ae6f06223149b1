package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cacheredis "github.com/gemmology-dev/crystal-api/internal/infrastructure/cache/redis"
	storageminio "github.com/gemmology-dev/crystal-api/internal/infrastructure/storage/minio"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	cache cacheredis.Cache   // nil-safe: Nop cache always reports healthy
	store storageminio.Store // nil when storage is disabled
}

// NewHealthHandler creates a HealthHandler.  Either dependency may be nil.
func NewHealthHandler(cache cacheredis.Cache, store storageminio.Store) *HealthHandler {
	return &HealthHandler{cache: cache, store: store}
}

// Liveness handles GET /healthz.  It reports process liveness only.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz.  It pings the configured dependencies and
// reports per-dependency status; any failure flips the overall status to 503.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{}
	healthy := true

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			deps["cache"] = "unavailable"
			healthy = false
		} else {
			deps["cache"] = "ok"
		}
	}
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			deps["storage"] = "unavailable"
			healthy = false
		} else {
			deps["storage"] = "ok"
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{"status": overall, "dependencies": deps})
}
