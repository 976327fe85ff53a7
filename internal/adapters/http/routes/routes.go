package routes

import (
	"parkslot/internal/adapters/http/handlers"
	"parkslot/internal/adapters/http/middleware"
	"parkslot/internal/adapters/persistence/repositories"
	"parkslot/internal/config"
	"parkslot/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	bookingRepo := repositories.NewBookingRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)

	// Initialize services
	bookingService := services.NewBookingService(bookingRepo)
	tokenService := services.NewTokenService(tokenRepo, cfg.Token)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	bookingHandler := handlers.NewBookingHandler(bookingService)
	tokenHandler := handlers.NewTokenHandler(tokenService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	bookingRoutes := apiV1.Group("/bookings")
	setupBookingRoutes(bookingRoutes, bookingHandler)

	tokenRoutes := apiV1.Group("/tokens")
	setupTokenRoutes(tokenRoutes, tokenHandler)
}

// setupBookingRoutes configures booking routes
func setupBookingRoutes(router fiber.Router, handler *handlers.BookingHandler) {
	router.Get("/", handler.ListBookings)
	router.Get("/:date", handler.GetBookingByDate)

	// Writes get a stricter per-IP limiter
	router.Post("/", middleware.WriteRateLimiter(), handler.CreateBooking)
	router.Delete("/:id", middleware.WriteRateLimiter(), handler.CancelBooking)
}

// setupTokenRoutes configures token budget routes
func setupTokenRoutes(router fiber.Router, handler *handlers.TokenHandler) {
	// Static path before the :userId wildcard
	router.Get("/quote", handler.GetQuote)

	router.Get("/:userId/balance", handler.GetBalance)
	router.Get("/:userId/transactions", handler.GetTransactions)
	router.Post("/:userId/spend", handler.SpendTokens)
	router.Post("/:userId/refund", handler.RefundTokens)
}
