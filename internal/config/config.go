package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all cache-layer configuration
type Config struct {
	Port        string
	Environment string
	RedisURL    string

	// Rate limiting defaults (fixed windows)
	APIRateLimit   int64
	APIRateWindow  time.Duration
	AuthRateLimit  int64
	AuthRateWindow time.Duration

	// Notification dispatcher
	NotifyInterval  time.Duration // how often the dispatcher drains the queue
	NotifyBatchSize int           // max items per drain
	NotifyPerSecond float64       // outbound send throttle
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3002"),
		Environment: getEnv("ENVIRONMENT", "development"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),

		APIRateLimit:   int64(getIntEnv("RATE_LIMIT_API", 100)),
		APIRateWindow:  getDurationEnv("RATE_LIMIT_API_WINDOW", time.Minute),
		AuthRateLimit:  int64(getIntEnv("RATE_LIMIT_AUTH", 10)),
		AuthRateWindow: getDurationEnv("RATE_LIMIT_AUTH_WINDOW", time.Minute),

		NotifyInterval:  getDurationEnv("NOTIFY_INTERVAL", 10*time.Second),
		NotifyBatchSize: getIntEnv("NOTIFY_BATCH_SIZE", 50),
		NotifyPerSecond: getFloatEnv("NOTIFY_PER_SECOND", 5),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
