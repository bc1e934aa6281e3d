package middleware

import (
	"log"
	"strconv"
	"time"

	"ecocollect/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// RateLimitConfig holds the fixed-window settings for one middleware
// instance. Windows are shared across instances because the counters
// live in Redis, unlike fiber's built-in in-memory limiter.
type RateLimitConfig struct {
	Limit  int64
	Window time.Duration
	Prefix string // counter key prefix, e.g. "ratelimit:api:"
}

// APIRateLimiter limits requests per client IP. When the store is down
// the limiter fails open and requests pass unthrottled.
func APIRateLimiter(limiter *cache.RateLimiter, cfg RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return check(c, limiter, cfg, cfg.Prefix+c.IP())
	}
}

// UserRateLimiter limits requests per authenticated user, falling back
// to the client IP when no user is attached to the request.
func UserRateLimiter(limiter *cache.RateLimiter, cfg RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := cfg.Prefix
		if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
			key += userID
		} else {
			key += "ip:" + c.IP()
		}
		return check(c, limiter, cfg, key)
	}
}

func check(c *fiber.Ctx, limiter *cache.RateLimiter, cfg RateLimitConfig, key string) error {
	res := limiter.Check(c.Context(), key, cfg.Limit, cfg.Window)

	c.Set("X-RateLimit-Limit", strconv.FormatInt(cfg.Limit, 10))
	c.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetTime.Unix(), 10))

	if !res.Allowed {
		log.Printf("🚫 [RATE-LIMIT] Limit reached for %s", key)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       "Too many requests. Please slow down.",
			"retry_after": int(cfg.Window.Seconds()),
		})
	}

	return c.Next()
}
