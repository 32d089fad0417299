package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLimiter_Allow(t *testing.T) {
	l := newLimiter(2, time.Minute)
	now := time.Now()

	ok, _ := l.allow("10.0.0.1", now)
	assert.True(t, ok)
	ok, _ = l.allow("10.0.0.1", now)
	assert.True(t, ok)
	ok, end := l.allow("10.0.0.1", now)
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), end)

	// other IPs have their own window
	ok, _ = l.allow("10.0.0.2", now)
	assert.True(t, ok)

	// a new window starts once the old one ends
	ok, _ = l.allow("10.0.0.1", now.Add(time.Minute+time.Second))
	assert.True(t, ok)
}

func TestLimiter_Purge(t *testing.T) {
	l := newLimiter(5, time.Second)
	now := time.Now()
	l.allow("a", now)
	l.allow("b", now)

	l.allow("c", now.Add(purgeInterval+time.Second))
	assert.Len(t, l.ips, 1)
	assert.Contains(t, l.ips, "c")
}

func TestRateLimiter_Responde429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(1, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), codigoRateLimit)
}
