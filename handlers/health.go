package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness and the state of each dependency.
type HealthHandler struct {
	Checks map[string]HealthCheck
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	components := gin.H{}
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			getLogger(c).Warn("health check failed", zap.String("component", name), zap.Error(err))
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}
	c.JSON(status, gin.H{
		"success":    status == http.StatusOK,
		"status":     http.StatusText(status),
		"components": components,
		"time":       time.Now().UTC(),
	})
}
