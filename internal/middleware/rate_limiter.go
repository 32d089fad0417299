package middleware

import (
	"net/http"
	"sync"
	"time"

	"almacen/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	codigoRateLimit = "RATE_LIMITED"
	purgeInterval   = 5 * time.Minute
)

// window tracks the request count of one client IP.
type window struct {
	count int
	end   time.Time
}

// limiter is a fixed-window counter per client IP. Expired entries are
// purged on access at most once per purgeInterval.
type limiter struct {
	limit     int
	size      time.Duration
	mu        sync.Mutex
	ips       map[string]*window
	lastPurge time.Time
}

func newLimiter(limit int, size time.Duration) *limiter {
	return &limiter{limit: limit, size: size, ips: make(map[string]*window), lastPurge: time.Now()}
}

// allow counts one request for ip and reports whether it is within the
// limit, plus the end of the current window.
func (l *limiter) allow(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPurge) > purgeInterval {
		l.purge(now)
	}

	w, ok := l.ips[ip]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(l.size)}
		l.ips[ip] = w
	}
	w.count++
	return w.count <= l.limit, w.end
}

func (l *limiter) purge(now time.Time) {
	purged := 0
	for ip, w := range l.ips {
		if now.After(w.end) {
			delete(l.ips, ip)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.ips)).Msg("rate limiter purged")
	}
}

func (l *limiter) handler(mensaje string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, end := l.allow(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", end.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Fallo(codigoRateLimit, mensaje))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter(20, time.Minute).handler("Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter limits every route to limit requests per window per IP.
func RateLimiter(limit int, size time.Duration) gin.HandlerFunc {
	return newLimiter(limit, size).handler("Demasiadas solicitudes. Intente nuevamente en un momento.")
}
