package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/latifliving/storefront-backend/config"
	"github.com/latifliving/storefront-backend/internal/app/controller"
	"github.com/latifliving/storefront-backend/internal/app/repository"
	"github.com/latifliving/storefront-backend/internal/app/service"
	"github.com/latifliving/storefront-backend/internal/db"
	"github.com/latifliving/storefront-backend/internal/middleware"
	"github.com/latifliving/storefront-backend/internal/router"
	"github.com/latifliving/storefront-backend/internal/scheduler"
	"github.com/latifliving/storefront-backend/pkg/logger"
	"github.com/latifliving/storefront-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Latif Living Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the logout token blacklist; the server still works
	// without it.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, db.GetDB())
	addressService := service.NewAddressService(addressRepo)
	checkoutService := service.NewCheckoutService(cartRepo, addressRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cartService, cfg.JWT.Secret)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	addressController := controller.NewAddressController(addressService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		checkoutController,
		addressController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start background cleanup of abandoned guest carts
	cleanupScheduler := scheduler.NewCartCleanupScheduler(cartService, cfg.Cart.GuestCartTTL)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Error("Failed to start cart cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
