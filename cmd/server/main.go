package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cmcs-claims/internal/adapters/http/handlers"
	"cmcs-claims/internal/adapters/http/middleware"
	"cmcs-claims/internal/adapters/http/routes"
	"cmcs-claims/internal/adapters/persistence/repositories"
	"cmcs-claims/internal/adapters/storage"
	"cmcs-claims/internal/config"
	"cmcs-claims/internal/core/domain"
	"cmcs-claims/internal/core/services"
	"cmcs-claims/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// @title Contract Monthly Claim API
// @version 1.0
// @description Lecturer claim submission with two-manager approval
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Claim repository
	var (
		claimRepo repositories.ClaimRepository
		userRepo  repositories.UserRepository
	)
	switch cfg.Store.Driver {
	case "memory":
		claimRepo = repositories.NewMemoryClaimRepository()
		log.Println("⚠️ Using in-memory claim store, data is lost on restart")
	default:
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer config.CloseDatabase()
		log.Println("✅ Database migration completed")

		claimRepo = repositories.NewClaimRepository(db)
		userRepo = repositories.NewUserRepository(db)

		if cfg.IsDev() {
			if err := config.NewSeeder(userRepo).Run(ctx); err != nil {
				log.Printf("⚠️ Warning: Failed to seed users: %v", err)
			}
			printDevTokens(ctx, cfg, userRepo)
		}
	}

	// Document storage
	fileStore, err := newFileStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialise document storage: %v", err)
	}

	// Services
	notifyService := services.NewNotificationService(cfg.Notify.WebhookURL)
	attachmentService := services.NewAttachmentService(fileStore)
	claimService := services.NewClaimService(claimRepo, userRepo, attachmentService, notifyService)

	// Review reminders
	reminderService := services.NewReminderService(claimRepo, notifyService, cfg.Reminder.Schedule)
	if err := reminderService.Start(); err != nil {
		log.Fatalf("❌ Failed to start reminders: %v", err)
	}
	defer reminderService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Contract Monthly Claim API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, cfg, claimService, handlers.NewHealthHandler(cfg, notifyService.IsEnabled()))

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	if cfg.Storage.Driver == "s3" {
		client, err := storage.NewS3Client(ctx, cfg.Storage.S3Region, cfg.Storage.S3Endpoint)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Documents stored in s3://%s/%s", cfg.Storage.S3Bucket, cfg.Storage.S3Prefix)
		return storage.NewS3Store(client, cfg.Storage.S3Bucket, cfg.Storage.S3Prefix), nil
	}

	store, err := storage.NewLocalStore(cfg.Storage.LocalDir)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Documents stored in %s", cfg.Storage.LocalDir)
	return store, nil
}

// printDevTokens logs a short-lived token per seeded role for local testing
func printDevTokens(ctx context.Context, cfg *config.Config, users repositories.UserRepository) {
	for _, role := range []domain.Role{domain.RoleLecturer, domain.RoleManager1, domain.RoleManager2, domain.RoleHR} {
		list, err := users.ListByRole(ctx, role)
		if err != nil || len(list) == 0 {
			continue
		}
		token, err := jwt.GenerateAccessToken(list[0].ID, string(role), cfg.JWT.Secret, 12*time.Hour)
		if err != nil {
			continue
		}
		log.Printf("🔑 %s (%s): %s", role, list[0].Username, token)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
