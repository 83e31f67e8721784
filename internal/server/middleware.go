package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestID tags each request with a UUID so one session's log lines can be
// told apart from another's.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// clientWindow tracks request counts for one client IP in the current window
type clientWindow struct {
	count       int
	windowStart time.Time
}

// RateLimiter is an in-memory fixed-window rate limiter keyed by client IP
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
}

// NewRateLimiter creates a rate limiter allowing limit requests per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
	}
}

// RateLimit returns the gin middleware enforcing the limit
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, resetTime, allowed := rl.check(c.ClientIP())

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "rate_limited",
				"message": fmt.Sprintf("rate limit exceeded, retry in %d seconds", retryAfter),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(clientIP string) (remaining int, resetTime time.Time, allowed bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[clientIP]
	if !ok || now.Sub(cw.windowStart) >= rl.window {
		cw = &clientWindow{windowStart: now}
		rl.clients[clientIP] = cw
	}

	resetTime = cw.windowStart.Add(rl.window)

	if cw.count >= rl.limit {
		return 0, resetTime, false
	}

	cw.count++
	return rl.limit - cw.count, resetTime, true
}
