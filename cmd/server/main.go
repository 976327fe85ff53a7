package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"parkslot/internal/adapters/http/middleware"
	"parkslot/internal/adapters/http/routes"
	"parkslot/internal/adapters/persistence/models"
	"parkslot/internal/adapters/persistence/repositories"
	"parkslot/internal/config"
	"parkslot/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "parkslot/docs" // Swagger docs
)

// @title Parkslot API
// @version 1.0
// @description Single-slot parking booking API with a weekly token budget.

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Start cron service for the weekly token refill sweep
	tokenRepo := repositories.NewTokenRepository(db)
	tokenService := services.NewTokenService(tokenRepo, cfg.Token)
	cronService := services.NewCronService(tokenService)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Parkslot API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
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
