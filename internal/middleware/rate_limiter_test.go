package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitedEngine(config RateLimiterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(NewRateLimiter(config).RateLimit())
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func ping(engine *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimitThrottlesBurst(t *testing.T) {
	engine := rateLimitedEngine(RateLimiterConfig{Rate: 1, Burst: 2})

	assert.Equal(t, http.StatusOK, ping(engine, "10.0.0.1:4000").Code)
	assert.Equal(t, http.StatusOK, ping(engine, "10.0.0.1:4000").Code)

	throttled := ping(engine, "10.0.0.1:4000")
	assert.Equal(t, http.StatusTooManyRequests, throttled.Code)
	assert.Equal(t, "1", throttled.Header().Get("Retry-After"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	engine := rateLimitedEngine(RateLimiterConfig{Rate: 1, Burst: 1})

	assert.Equal(t, http.StatusOK, ping(engine, "10.0.0.1:4000").Code)
	assert.Equal(t, http.StatusTooManyRequests, ping(engine, "10.0.0.1:4000").Code)

	// a second client gets its own bucket
	assert.Equal(t, http.StatusOK, ping(engine, "10.0.0.2:4000").Code)
}
