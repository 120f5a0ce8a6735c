package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves GET /healthz.
type HealthHandler struct {
	db     HealthChecker
	logger logging.Logger
}

func NewHealthHandler(db HealthChecker, logger logging.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger.Named("health_handler")}
}

// Healthz reports liveness plus database connectivity.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		h.logger.Warn("health check failed", logging.Err(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}
