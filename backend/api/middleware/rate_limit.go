package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter hands out one token bucket per client IP. Entries are never
// evicted; the working set is bounded by the number of distinct clients.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

func rateLimitMiddleware(l *ipLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

var (
	globalLimiter   = newIPLimiter(rate.Limit(20), 60)
	criticalLimiter = newIPLimiter(rate.Limit(2), 10)
)

// GlobalAPIRateLimit applies to every API route.
func GlobalAPIRateLimit() gin.HandlerFunc {
	return rateLimitMiddleware(globalLimiter)
}

// CriticalRateLimit guards the OAuth and upload paths.
func CriticalRateLimit() gin.HandlerFunc {
	return rateLimitMiddleware(criticalLimiter)
}
