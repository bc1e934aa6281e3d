package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithComponent returns a logger tagged with a cache-layer component name
// (store, ratelimit, queue, pubsub, notifier).
func WithComponent(component string) *slog.Logger {
	return slog.With("component", component)
}

// WithSubscription returns a logger scoped to one pub/sub subscription.
func WithSubscription(logger *slog.Logger, subID, channel string) *slog.Logger {
	return logger.With(
		"subscription_id", subID,
		"channel", channel,
	)
}
