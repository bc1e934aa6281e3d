package handlers

import (
	"ecocollect/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler exposes the cache layer's connectivity status
type HealthHandler struct {
	layer *cache.Layer
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(layer *cache.Layer) *HealthHandler {
	return &HealthHandler{layer: layer}
}

// Check reports cache connectivity. Always 200: a degraded cache must
// never fail the host, callers read the body to decide.
// GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := h.layer.Client.HealthCheck(c.Context())

	return c.JSON(fiber.Map{
		"status":      status.Status,
		"connected":   status.Connected,
		"state":       h.layer.Client.State().String(),
		"queue_depth": h.layer.Queue.Len(c.Context()),
		"subscribers": h.layer.Broker.SubscriberCount(),
	})
}
