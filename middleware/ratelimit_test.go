package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(limit rate.Limit, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(limit, burst), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doPing(r *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", ip)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	r := rateLimitedRouter(rate.Limit(1), 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doPing(r, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, doPing(r, "10.0.0.1"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	r := rateLimitedRouter(rate.Limit(1), 1)

	assert.Equal(t, http.StatusOK, doPing(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, doPing(r, "10.0.0.1"))

	// A fresh client gets its own bucket.
	assert.Equal(t, http.StatusOK, doPing(r, "10.0.0.2"))
}

func TestClientLimiterPrunesIdleEntries(t *testing.T) {
	cl := newClientLimiter(rate.Limit(1), 1)

	cl.allow("10.0.0.1")
	cl.mu.Lock()
	cl.clients["10.0.0.1"].lastSeen = time.Now().Add(-2 * clientIdleTTL)
	cl.mu.Unlock()

	// Adding a new client sweeps the stale one.
	cl.allow("10.0.0.2")

	cl.mu.Lock()
	defer cl.mu.Unlock()
	assert.NotContains(t, cl.clients, "10.0.0.1")
	assert.Contains(t, cl.clients, "10.0.0.2")
}

func TestAdminRequiredBlocksNonAdmins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) { c.Set("isAdmin", false) }, AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/admin-ok", func(c *gin.Context) { c.Set("isAdmin", true) }, AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
