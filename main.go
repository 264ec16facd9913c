package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sheryyiee121/instagram-dm-bot/environments"
	"github.com/sheryyiee121/instagram-dm-bot/handlers"
	"github.com/sheryyiee121/instagram-dm-bot/internal/campaign"
	"github.com/sheryyiee121/instagram-dm-bot/internal/delivery"
	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/internal/engagement"
	"github.com/sheryyiee121/instagram-dm-bot/internal/reply"
	"github.com/sheryyiee121/instagram-dm-bot/internal/repository"
	"github.com/sheryyiee121/instagram-dm-bot/internal/session"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/database"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/gateway"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/redis"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/validator"
	"github.com/sheryyiee121/instagram-dm-bot/routes"

	_ "github.com/sheryyiee121/instagram-dm-bot/docs" // swagger docs
)

// @title Instagram DM Campaign API
// @version 1.0
// @description Campaign orchestration service for Instagram direct messaging

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	logger.Init()

	// Load config
	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.Auth.CampaignAPIKey == "" {
		logger.Fatalf("CAMPAIGN_API_KEY is required but not set")
	}
	if cfg.Auth.AdminAPIKey == "" {
		logger.Fatalf("ADMIN_API_KEY is required but not set")
	}

	logger.Infof("Starting Instagram DM campaign service...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Init redis (session cache)
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, session caching disabled: %v", err)
		redisClient = nil
	}

	// Automation gateway client
	gatewayClient := gateway.NewClient(cfg.Gateway)
	logger.Infof("Gateway configured: %s", cfg.Gateway.URL)

	// Initialize repository
	store := repository.NewStore(db)

	// Core engine wiring. The cache argument must stay a nil interface
	// when redis is down, not a typed nil pointer.
	var sessions *session.Manager
	if redisClient != nil {
		sessions = session.NewManager(store, redisClient, gatewayClient)
	} else {
		sessions = session.NewManager(store, nil, gatewayClient)
	}
	engine := delivery.NewEngine(store)
	engager := engagement.NewOrchestrator(store)

	acquire := campaign.AcquireFunc(func(ctx context.Context, account domain.Account, useInteractiveLogin bool) (campaign.Channel, error) {
		return sessions.Acquire(ctx, account, useInteractiveLogin)
	})

	scheduler := campaign.NewScheduler(store, acquire, engine, engager)
	settings := campaign.NewSettingsStore(cfg.Campaign)
	responder := reply.NewResponder(store)

	engagementAcquire := handlers.EngagementAcquireFunc(func(ctx context.Context, account domain.Account, useInteractiveLogin bool) (handlers.EngagementChannel, error) {
		return sessions.Acquire(ctx, account, useInteractiveLogin)
	})

	// App-lifetime context for campaign workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, redisClient, scheduler)
	campaignHandler := handlers.NewCampaignHandler(scheduler, settings, ctx)
	accountHandler := handlers.NewAccountHandler(store)
	recipientHandler := handlers.NewRecipientHandler(store)
	settingsHandler := handlers.NewSettingsHandler(settings)
	analyticsHandler := handlers.NewAnalyticsHandler(store)
	engagementHandler := handlers.NewEngagementHandler(store, engagementAcquire, responder, settings)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"x-ig-auth-key",
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, healthHandler, campaignHandler, accountHandler,
		recipientHandler, settingsHandler, analyticsHandler, engagementHandler, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Cancel the app context so any campaign worker stops at its next
	// checkpoint.
	cancel()

	// Stop any active campaign first (with timeout)
	if scheduler.IsRunning() {
		logger.Infof("Stopping campaign...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)

		done := make(chan error, 1)
		go func() {
			done <- scheduler.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping campaign: %v", err)
			} else {
				logger.Infof("Campaign stopped successfully")
			}
		case <-stopCtx.Done():
			logger.Warnf("Campaign stop timeout, forcing shutdown")
		}
		stopCancel()
	}

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
