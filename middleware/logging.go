package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger stores a request-scoped logger under "logger" and logs each
// request once it completes.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		reqLogger := logger.With(zap.String("requestId", requestID))
		c.Set("logger", reqLogger)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			reqLogger.Error("request failed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			reqLogger.Warn("request rejected", fields...)
		default:
			reqLogger.Info("request handled", fields...)
		}
	}
}

// Recovery turns a panic into a 500 response and logs the panic value.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Request.URL.Path), zap.Stack("stack"))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}
