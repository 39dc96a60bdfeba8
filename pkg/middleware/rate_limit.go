package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/cache"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/response"
)

// RateLimiter is a fixed-window limiter keyed by client IP. Counters live in
// the shared cache so every instance enforces the same budget.
type RateLimiter struct {
	store    cache.Client
	rate     int
	duration time.Duration
	prefix   string
	logger   *slog.Logger
	now      func() time.Time
}

// NewRateLimiter allows rate requests per duration for each client IP.
func NewRateLimiter(store cache.Client, rate int, duration time.Duration, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		store:    store,
		rate:     rate,
		duration: duration,
		prefix:   "ratelimit",
		logger:   logger,
		now:      time.Now,
	}
}

// Middleware returns a Gin middleware that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		window := rl.now().UnixNano() / int64(rl.duration)
		key := rl.prefix + ":" + c.ClientIP() + ":" + strconv.FormatInt(window, 10)

		count, err := rl.store.Increment(c.Request.Context(), key, rl.duration)
		if err != nil {
			// Fail open: a cache outage must not take the API down.
			rl.logger.Warn("rate limiter unavailable", slog.String("error", err.Error()))
			c.Next()
			return
		}

		remaining := rl.rate - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > rl.rate {
			c.Header("Retry-After", strconv.Itoa(int(rl.duration.Seconds())))
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
