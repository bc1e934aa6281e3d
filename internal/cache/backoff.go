package cache

import "time"

// BackoffPolicy controls the reconnect loop of the Client.
// Delays grow linearly with the attempt number and are capped at MaxDelay.
// The loop gives up after MaxAttempts attempts or once MaxElapsed of
// cumulative waiting has passed, whichever comes first.
type BackoffPolicy struct {
	BaseDelay   time.Duration // delay multiplier per attempt
	MaxDelay    time.Duration // per-attempt cap
	MaxAttempts int           // total attempts before giving up
	MaxElapsed  time.Duration // cumulative retry-time ceiling
}

// DefaultBackoffPolicy returns the production reconnect policy:
// 100ms * attempt capped at 3s, at most 10 attempts, at most 1 hour total.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    3 * time.Second,
		MaxAttempts: 10,
		MaxElapsed:  1 * time.Hour,
	}
}

// Delay returns the wait before the given attempt (1-based).
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(attempt) * p.BaseDelay
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Exhausted reports whether the policy allows another attempt after
// `attempt` attempts and `elapsed` cumulative waiting.
func (p BackoffPolicy) Exhausted(attempt int, elapsed time.Duration) bool {
	return attempt >= p.MaxAttempts || elapsed >= p.MaxElapsed
}
