package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Login rate limiter ────────────────────────────────────────────────────────
// Slows down password guessing against the local API. Fixed window per
// client IP; expired windows are purged whenever the map grows past
// purgeThreshold, so no background goroutine is needed.

const purgeThreshold = 256

type window struct {
	count int
	end   time.Time
}

type loginLimiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	clients map[string]*window
	now     func() time.Time
}

// LoginRateLimiter allows limit login attempts per period per client IP.
func LoginRateLimiter(limit int, period time.Duration) gin.HandlerFunc {
	l := &loginLimiter{
		limit:   limit,
		period:  period,
		clients: make(map[string]*window),
		now:     time.Now,
	}
	return l.handle
}

func (l *loginLimiter) handle(c *gin.Context) {
	if !l.allow(c.ClientIP()) {
		log.Warn().Str("ip", c.ClientIP()).Msg("login rate limit hit")
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			apierror.New(apierror.CodeRateLimited, "too many login attempts, try again in a minute"))
		return
	}
	c.Next()
}

func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[ip]
	if !ok || now.After(w.end) {
		if !ok && len(l.clients) >= purgeThreshold {
			l.purge(now)
		}
		w = &window{end: now.Add(l.period)}
		l.clients[ip] = w
	}
	w.count++
	return w.count <= l.limit
}

// purge drops expired windows (under lock).
func (l *loginLimiter) purge(now time.Time) {
	for ip, w := range l.clients {
		if now.After(w.end) {
			delete(l.clients, ip)
		}
	}
}
