package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds a limiter per client IP.
type rateLimiterStore struct {
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
	perMinute int
}

func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute)
		s.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware allows perMinute requests per client IP, with a burst of the same size.
func RateLimitMiddleware(perMinute int, logger *zap.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 200
	}
	store := &rateLimiterStore{limiters: make(map[string]*rate.Limiter), perMinute: perMinute}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
