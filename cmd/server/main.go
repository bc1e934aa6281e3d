package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecocollect/internal/cache"
	"ecocollect/internal/config"
	"ecocollect/internal/handlers"
	"ecocollect/internal/jobs"
	"ecocollect/internal/logging"
	"ecocollect/internal/middleware"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting EcoCollect cache service...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, Redis: %s)", cfg.Port, cfg.RedisURL)

	// Build the cache layer over one shared client. Connect starts
	// degraded when Redis is down; the reconnect loop takes over.
	client, err := cache.NewClient(cfg.RedisURL, cache.DefaultBackoffPolicy())
	if err != nil {
		log.Fatalf("❌ Invalid REDIS_URL: %v", err)
	}
	if err := client.Connect(context.Background()); err != nil {
		log.Fatalf("❌ Failed to start cache client: %v", err)
	}
	layer := cache.NewLayer(client)

	// Notification dispatcher drains the outbound queue on a schedule
	dispatcher, err := jobs.NewNotificationDispatcher(
		layer.Queue, jobs.LogSender{},
		cfg.NotifyInterval, cfg.NotifyBatchSize, cfg.NotifyPerSecond,
	)
	if err != nil {
		log.Fatalf("❌ Failed to create notification dispatcher: %v", err)
	}
	if err := dispatcher.Start(); err != nil {
		log.Fatalf("❌ Failed to start notification dispatcher: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "EcoCollect Cache v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("ecocollect")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Redis-backed fixed-window limiter in front of the API surface
	app.Use("/api", middleware.APIRateLimiter(layer.Limiter, middleware.RateLimitConfig{
		Limit:  cfg.APIRateLimit,
		Window: cfg.APIRateWindow,
		Prefix: "ratelimit:api:",
	}))
	log.Printf("🛡️  [RATE-LIMIT] API window: %d/%s", cfg.APIRateLimit, cfg.APIRateWindow)

	healthHandler := handlers.NewHealthHandler(layer)
	app.Get("/health", healthHandler.Check)

	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if err := dispatcher.Stop(); err != nil {
			log.Printf("⚠️ Error stopping notification dispatcher: %v", err)
		}

		layer.Broker.CloseAll()

		if err := client.Disconnect(); err != nil {
			log.Printf("⚠️ Error closing Redis connection: %v", err)
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
