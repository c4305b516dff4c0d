package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request logger set by middleware, or the global logger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}
