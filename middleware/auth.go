package middleware

import (
	"net/http"
	"strings"

	"portfolio/models"
	"portfolio/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// JWTAuthMiddleware rejects requests without a valid bearer token.
func JWTAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
			return
		}
		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token failed"})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware attaches the caller's identity when a valid token
// is present and lets anonymous requests through.
func OptionalJWTAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := utils.ValidateToken(secret, tokenString); err == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxUserEmail, claims.Email)
			}
		}
		c.Next()
	}
}

// ActorFromContext returns the identity set by the auth middleware, if any.
func ActorFromContext(c *gin.Context) models.Actor {
	return models.Actor{
		UserID: c.GetString(ctxUserID),
		Email:  c.GetString(ctxUserEmail),
	}
}
