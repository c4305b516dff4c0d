package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// TrustProxies limits which peers may set X-Forwarded-For / X-Real-IP.
// With no proxies configured, c.ClientIP() is always the peer address.
func TrustProxies(r *gin.Engine, proxies []string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	return nil
}
