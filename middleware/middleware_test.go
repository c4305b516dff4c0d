package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var secret = []byte("jwt-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func actorRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/me", mw, func(c *gin.Context) {
		actor := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": actor.UserID, "email": actor.Email})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := actorRouter(JWTAuthMiddleware(secret))

	token, err := utils.GenerateToken(secret, "user-1", "ada@example.com", time.Hour)
	require.NoError(t, err)

	w := get(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"user-1","email":"ada@example.com"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)

	forged, err := utils.GenerateToken([]byte("other"), "user-1", "ada@example.com", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, forged).Code)
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	r := actorRouter(OptionalJWTAuthMiddleware(secret))

	w := get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"","email":""}`, w.Body.String())

	w = get(r, "garbage")
	assert.Equal(t, http.StatusOK, w.Code, "bad tokens degrade to anonymous")

	token, err := utils.GenerateToken(secret, "user-1", "ada@example.com", time.Hour)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"user-1","email":"ada@example.com"}`, get(r, token).Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, get(r, "").Code)
	assert.Equal(t, http.StatusNoContent, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Recovery(zap.NewNop()))
	r.GET("/me", func(c *gin.Context) { panic("boom") })

	w := get(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func limitedRouter(t *testing.T, proxies []string) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, TrustProxies(r, proxies))
	r.Use(RateLimitMiddleware(1, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })
	return r
}

func fromPeer(r *gin.Engine, peer, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.RemoteAddr = peer
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_SpoofedForwardedForIsIgnored(t *testing.T) {
	r := limitedRouter(t, nil)

	w := fromPeer(r, "198.51.100.9:5000", "203.0.113.1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "198.51.100.9", w.Body.String())

	w = fromPeer(r, "198.51.100.9:5000", "203.0.113.2")
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "rotating the header does not reset the limit")
}

func TestRateLimit_TrustedProxyForwardsClient(t *testing.T) {
	r := limitedRouter(t, []string{"10.0.0.0/8"})

	w := fromPeer(r, "10.0.0.5:5000", "203.0.113.1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "203.0.113.1", w.Body.String())

	assert.Equal(t, http.StatusOK, fromPeer(r, "10.0.0.5:5000", "203.0.113.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, fromPeer(r, "10.0.0.5:5000", "203.0.113.2").Code)
}

func TestTrustProxies_RejectsInvalidEntries(t *testing.T) {
	assert.Error(t, TrustProxies(gin.New(), []string{"not-an-ip"}))
}
