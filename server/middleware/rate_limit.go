package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/hello-ai/joebot/server/session"
)

// RateLimiter provides per-session rate limiting for the chat endpoint,
// which fans out to the hosted LLM API on every call.
type RateLimiter struct {
	mu     sync.RWMutex
	limits map[string]*rate.Limiter
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*rate.Limiter),
	}
}

// getLimiter gets or creates a limiter for the given key.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}

	// One request per second sustained, with burst of 5
	limiter := rate.NewLimiter(rate.Every(time.Second), 5)
	rl.limits[key] = limiter
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// ChatRateLimit rejects over-limit chat calls with 429, keyed by session id.
func (rl *RateLimiter) ChatRateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(session.FromContext(c)) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "Too many requests. Slow down a little.",
				})
			}
			return next(c)
		}
	}
}
