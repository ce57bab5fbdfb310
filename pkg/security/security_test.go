package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/courses", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSOriginWhitelist(t *testing.T) {
	router := newTestRouter(CORS([]string{"https://lms.example.com"}))

	t.Run("白名单内的Origin放行", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
		req.Header.Set("Origin", "https://lms.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, "https://lms.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("白名单外的Origin不回显", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("预检请求直接204", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET, POST, PUT, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	})
}

func TestSecureHeaders(t *testing.T) {
	router := newTestRouter(Secure())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	// API 响应含学员数据，不允许中间缓存
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	router := newTestRouter(RateLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimiterExemptsHealthAndMetrics(t *testing.T) {
	assert.True(t, rateLimitExempt("/api/health"))
	assert.True(t, rateLimitExempt("/metrics"))
	assert.False(t, rateLimitExempt("/api/courses"))

	// 健康检查打满也不会被限流
	router := newTestRouter(RateLimiter(1, time.Minute))
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
