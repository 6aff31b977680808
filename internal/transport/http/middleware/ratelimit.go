package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "lottery-forum/internal/transport/http/response"
)

// RateLimit is one token bucket shared by every caller.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeTooManyRequests, "too many requests"))
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimitPerIP keeps a bucket per client IP. Buckets idle for longer than
// idle are dropped on the next sweep.
func RateLimitPerIP(rps rate.Limit, burst int, idle time.Duration) gin.HandlerFunc {
	var (
		mu        sync.Mutex
		buckets   = make(map[string]*ipBucket)
		lastSweep = time.Now()
	)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if idle > 0 && now.Sub(lastSweep) > idle {
			for k, b := range buckets {
				if now.Sub(b.seen) > idle {
					delete(buckets, k)
				}
			}
			lastSweep = now
		}
		b, ok := buckets[ip]
		if !ok {
			b = &ipBucket{lim: rate.NewLimiter(rps, burst)}
			buckets[ip] = b
		}
		b.seen = now
		allowed := b.lim.AllowN(now, 1)
		mu.Unlock()

		if allowed {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeTooManyRequests, "too many requests"))
	}
}
