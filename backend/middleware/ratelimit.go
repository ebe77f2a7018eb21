package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru"

	"github.com/kitchen-service/kitchen/backend/utils"
	"github.com/kitchen-service/kitchen/kitchen/config"
)

// RateLimiter is a sliding-window limiter keyed by client. The LRU bounds memory
// to the most recently seen keys.
type RateLimiter struct {
	requests *lru.Cache
	mutex    sync.Mutex
	window   time.Duration
	limit    int
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	cache, _ := lru.New(config.RateLimiterSize)
	return &RateLimiter{
		requests: cache,
		window:   window,
		limit:    limit,
		now:      time.Now,
	}
}

// Allow checks if a request should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	var recent []time.Time
	if v, ok := rl.requests.Get(key); ok {
		for _, t := range v.([]time.Time) {
			if t.After(cutoff) {
				recent = append(recent, t)
			}
		}
	}

	if len(recent) >= rl.limit {
		rl.requests.Add(key, recent)
		return false
	}

	rl.requests.Add(key, append(recent, now))
	return true
}

// RateLimit middleware limits requests per IP address
func RateLimit(limit int, window time.Duration) fiber.Handler {
	limiter := NewRateLimiter(limit, window)

	return func(c *fiber.Ctx) error {
		ip := utils.GetIPAddress(c)

		if !limiter.Allow(ip) {
			slog.Warn("Rate limit exceeded",
				slog.String("type", "auth"),
				slog.String("ip", ip),
				slog.String("path", c.Path()),
				slog.Int("limit", limit),
				slog.Duration("window", window))

			if utils.WantsJSON(c) {
				return utils.SendTooManyRequests(c, "Too many requests. Please try again later.")
			}
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		}

		return c.Next()
	}
}

// LoginRateLimit limits login POSTs to limit per minute per client.
func LoginRateLimit(limit int) fiber.Handler {
	return RateLimit(limit, config.LoginRateWindow)
}
