// Package middleware holds the echo middleware shared by the widget
// server's routes.
package middleware

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/hrygo/schoolglance/server/internal/observability"
)

// RateLimiter provides per-key rate limiting.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter
	limit  rate.Limit
	burst  int
}

// NewRateLimiter creates a rate limiter allowing rps requests per second
// per key, with the given burst. Non-positive arguments fall back to
// 10 requests per second with a burst of 20.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &RateLimiter{
		limits: make(map[string]*rate.Limiter),
		limit:  rate.Limit(rps),
		burst:  burst,
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limits[key] = limiter
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Prune removes limiters that are idle, i.e. fully refilled. The server
// runs it periodically so the per-key map does not grow without bound.
func (rl *RateLimiter) Prune() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, limiter := range rl.limits {
		if limiter.Tokens() >= float64(rl.burst) {
			delete(rl.limits, key)
			removed++
		}
	}
	return removed
}

// KeyFunc derives the rate limiting key for a request.
type KeyFunc func(c echo.Context) string

// RateLimit returns middleware rejecting callers over their budget with
// 429 and the usual error record shape.
//
// keyFor may be nil or return "", in which case the request is keyed by
// remote IP.
func RateLimit(limiter *RateLimiter, keyFor KeyFunc, metrics *observability.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := ""
			if keyFor != nil {
				key = keyFor(c)
			}
			if key == "" {
				key = c.RealIP()
			}

			if !limiter.Allow(key) {
				if metrics != nil {
					metrics.RecordRateLimited()
				}
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"status":  "error",
					"message": "Rate limit exceeded, retry shortly",
				})
			}
			return next(c)
		}
	}
}
