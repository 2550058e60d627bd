package routes

import (
	"cmcs-claims/internal/adapters/http/handlers"
	"cmcs-claims/internal/adapters/http/middleware"
	"cmcs-claims/internal/config"
	"cmcs-claims/internal/core/services"
	"cmcs-claims/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, claimService *services.ClaimService, healthHandler *handlers.HealthHandler) {
	claimHandler := handlers.NewClaimHandler(claimService)

	// ============================================================
	// Health
	// ============================================================
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// ============================================================
	// API v1
	// ============================================================
	api := app.Group("/api/v1", middleware.ResolveRole(cfg.JWT.Secret), middleware.NoCacheHeaders())
	api.Get("/", healthHandler.APIInfo)

	claims := api.Group("/claims")

	// Lecturer
	claims.Post("/", middleware.LecturerOnly(), claimHandler.Submit)
	claims.Get("/my", middleware.LecturerOnly(), claimHandler.ListMine)
	claims.Put("/:id", middleware.LecturerOnly(), claimHandler.Update)
	claims.Delete("/:id", middleware.LecturerOnly(), claimHandler.Delete)

	// Managers
	claims.Get("/", middleware.ManagersOnly(), claimHandler.ListForReview)
	claims.Post("/:id/review", middleware.ManagersOnly(), middleware.ReviewRateLimiter(), claimHandler.Review)

	// HR
	claims.Get("/approved", middleware.HROnly(), claimHandler.ListApproved)

	// Any role; lecturers only see their own
	claims.Get("/:id", claimHandler.GetByID)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})
}
