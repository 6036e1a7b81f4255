package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a sliding-window request counter keyed by client
type RateLimiter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// IsAllowed records a request for key and reports whether it fits in the window,
// along with the requests left.
func (rl *RateLimiter) IsAllowed(key string) (bool, int) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	valid := pruneBefore(rl.requests[key], now.Add(-rl.window))

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false, 0
	}

	valid = append(valid, now)
	rl.requests[key] = valid

	return true, rl.limit - len(valid)
}

// Sweep drops keys with no requests inside the window
func (rl *RateLimiter) Sweep() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for key, requests := range rl.requests {
		valid := pruneBefore(requests, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

func (rl *RateLimiter) keys() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.requests)
}

func pruneBefore(requests []time.Time, cutoff time.Time) []time.Time {
	var valid []time.Time
	for _, t := range requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}

// RateLimit limits each client IP to requestsPerMinute. Used in front of
// the PNG renderers and the reload trigger. Zero disables limiting.
func RateLimit(requestsPerMinute int) gin.HandlerFunc {
	if requestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return rateLimitWith(NewRateLimiter(requestsPerMinute, time.Minute))
}

func rateLimitWith(limiter *RateLimiter) gin.HandlerFunc {
	var calls int
	var callsMu sync.Mutex

	return func(c *gin.Context) {
		callsMu.Lock()
		calls++
		if calls%100 == 0 {
			limiter.Sweep()
		}
		callsMu.Unlock()

		allowed, remaining := limiter.IsAllowed(c.ClientIP())
		resetAt := time.Now().Add(limiter.window).Unix()

		c.Header("X-Rate-Limit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-Rate-Limit-Remaining", strconv.Itoa(remaining))
		c.Header("X-Rate-Limit-Reset", strconv.FormatInt(resetAt, 10))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "RATE_LIMIT_EXCEEDED",
					"message":    "Rate limit exceeded. Please try again later.",
					"request_id": c.GetString(RequestIDKey),
					"details": gin.H{
						"limit":    limiter.limit,
						"window":   limiter.window.String(),
						"reset_at": resetAt,
					},
				},
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}

		c.Next()
	}
}
