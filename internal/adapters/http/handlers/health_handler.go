package handlers

import (
	"cmcs-claims/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	mode      string
	store     string
	checkDB   func() error
	notifying bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config, notifying bool) *HealthHandler {
	return &HealthHandler{
		mode:      cfg.AppMode,
		store:     cfg.Store.Driver,
		checkDB:   config.HealthCheck,
		notifying: notifying,
	}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Contract Monthly Claim API v1.0 is running",
		"mode":    h.mode,
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "healthy"
	if err := h.checkDB(); err != nil {
		status = "degraded"
		dbStatus = "unhealthy"
		c.Status(fiber.StatusServiceUnavailable)
	}

	notifyStatus := "disabled"
	if h.notifying {
		notifyStatus = "enabled"
	}

	return c.JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"api":           "healthy",
			"database":      dbStatus,
			"store":         h.store,
			"notifications": notifyStatus,
		},
	})
}

// APIInfo handles API v1 info
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Contract Monthly Claim API v1.0",
		"version": "1.0.0",
	})
}
