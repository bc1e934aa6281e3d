package cache

import (
	"context"
	"testing"
	"time"
)

func TestFixedWindowLimit(t *testing.T) {
	_, client := newTestClient(t)
	rl := NewRateLimiter(client)
	ctx := context.Background()

	const limit = 5
	window := time.Minute

	for i := 1; i <= limit; i++ {
		res := rl.Check(ctx, "rl:test", limit, window)
		if !res.Allowed {
			t.Fatalf("Request %d should be allowed", i)
		}
		if want := int64(limit - i); res.Remaining != want {
			t.Errorf("Request %d: expected remaining %d, got %d", i, want, res.Remaining)
		}
		if res.Degraded {
			t.Errorf("Request %d should not be degraded", i)
		}
	}

	sixth := rl.Check(ctx, "rl:test", limit, window)
	if sixth.Allowed {
		t.Error("Sixth request within the window should be denied")
	}
	if sixth.Remaining != 0 {
		t.Errorf("Remaining should stay 0 past the limit, got %d", sixth.Remaining)
	}
}

func TestWindowResets(t *testing.T) {
	mr, client := newTestClient(t)
	rl := NewRateLimiter(client)
	ctx := context.Background()

	const limit = 5
	window := time.Minute

	for i := 0; i < limit+1; i++ {
		rl.Check(ctx, "rl:reset", limit, window)
	}

	mr.FastForward(window + time.Second)

	res := rl.Check(ctx, "rl:reset", limit, window)
	if !res.Allowed {
		t.Error("First request of a fresh window should be allowed")
	}
	if res.Remaining != limit-1 {
		t.Errorf("Expected remaining %d after reset, got %d", limit-1, res.Remaining)
	}
}

func TestWindowTTLSetOnlyOnce(t *testing.T) {
	mr, client := newTestClient(t)
	rl := NewRateLimiter(client)
	ctx := context.Background()

	rl.Check(ctx, "rl:pinned", 10, time.Minute)
	mr.FastForward(40 * time.Second)
	rl.Check(ctx, "rl:pinned", 10, time.Minute)

	// The window is pinned to the first request: the second check must
	// not have pushed the expiry out again.
	if ttl := mr.TTL("rl:pinned"); ttl > 20*time.Second {
		t.Errorf("Window TTL was refreshed by a later request: %s left", ttl)
	}
}

func TestLimiterFailsOpenWhenOffline(t *testing.T) {
	rl := NewRateLimiter(newOfflineClient())

	res := rl.Check(context.Background(), "rl:offline", 5, time.Minute)
	if !res.Allowed {
		t.Error("Limiter must fail open when the store is down")
	}
	if res.Remaining != 5 {
		t.Errorf("Fail-open remaining should equal the limit, got %d", res.Remaining)
	}
	if !res.Degraded {
		t.Error("Fail-open result should be tagged degraded")
	}
}
