package cache

import (
	"context"
	"log"
	"time"
)

// RateLimitResult is the outcome of a fixed-window rate limit check.
// Degraded is set when the store was unreachable and the limiter failed
// open, so callers and tests can tell "allowed" from "not enforced".
type RateLimitResult struct {
	Allowed   bool      `json:"allowed"`
	Remaining int64     `json:"remaining"`
	ResetTime time.Time `json:"reset_time"`
	Degraded  bool      `json:"degraded,omitempty"`
}

// RateLimiter implements fixed-window counting on Redis INCR. The window
// is pinned to the first request: the key's TTL is set exactly once, when
// the post-increment count is 1, and never refreshed by later requests.
type RateLimiter struct {
	client *Client
}

// NewRateLimiter creates a rate limiter over the shared client.
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Check increments the counter at key and compares it to limit. When the
// store is unavailable the limiter fails OPEN: availability wins over
// strict enforcement, since this is an auxiliary protection layer.
func (rl *RateLimiter) Check(ctx context.Context, key string, limit int64, window time.Duration) RateLimitResult {
	open := RateLimitResult{
		Allowed:   true,
		Remaining: limit,
		ResetTime: time.Now().Add(window),
		Degraded:  true,
	}

	rdb, ok := rl.client.cmd()
	if !ok {
		rateLimitChecks.WithLabelValues("open").Inc()
		return open
	}

	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️  [RATE-LIMIT] Increment failed for key %s, failing open: %v", key, err)
		rl.client.demote(err)
		rateLimitChecks.WithLabelValues("open").Inc()
		return open
	}

	// First request of a fresh window starts the clock. Subsequent
	// increments must not touch the TTL or the window would never reset
	// under a steady stream of requests.
	if count == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			log.Printf("⚠️  [RATE-LIMIT] Failed to set window TTL for key %s: %v", key, err)
		}
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	res := RateLimitResult{
		Allowed:   count <= limit,
		Remaining: remaining,
		ResetTime: time.Now().Add(window), // informational, client-side only
	}

	if res.Allowed {
		rateLimitChecks.WithLabelValues("allowed").Inc()
	} else {
		rateLimitChecks.WithLabelValues("denied").Inc()
	}
	return res
}
