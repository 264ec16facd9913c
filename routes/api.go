package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sheryyiee121/instagram-dm-bot/environments"
	"github.com/sheryyiee121/instagram-dm-bot/handlers"
	"github.com/sheryyiee121/instagram-dm-bot/internal/middlewares"
)

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	campaignHandler *handlers.CampaignHandler,
	accountHandler *handlers.AccountHandler,
	recipientHandler *handlers.RecipientHandler,
	settingsHandler *handlers.SettingsHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	engagementHandler *handlers.EngagementHandler,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 base group
	v1 := e.Group("/api/v1")

	// Campaign control accepts either key; the admin token works everywhere
	campaignAuth := middlewares.RequireAPIKey(cfg.Auth.CampaignAPIKey, cfg.Auth.AdminAPIKey)

	campaignGroup := v1.Group("/campaign", campaignAuth)
	campaignGroup.POST("/start", campaignHandler.StartCampaign)
	campaignGroup.POST("/stop", campaignHandler.StopCampaign)
	campaignGroup.GET("/status", campaignHandler.GetCampaignStatus)

	// Log feed shares the campaign surface; the dashboard polls it alongside status
	v1.GET("/logs", campaignHandler.GetRecentLogs, campaignAuth)

	// Admin surface requires the admin key
	adminAuth := middlewares.RequireAPIKey(cfg.Auth.AdminAPIKey)

	accounts := v1.Group("/accounts", adminAuth)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("", accountHandler.AddAccount)
	accounts.DELETE("/:username", accountHandler.RemoveAccount)
	accounts.PUT("/:username/proxy", accountHandler.SetAccountProxy)

	recipients := v1.Group("/recipients", adminAuth)
	recipients.POST("", recipientHandler.EnqueueRecipients)
	recipients.GET("/pending", recipientHandler.ListPendingRecipients)

	settings := v1.Group("/settings", adminAuth)
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)

	analytics := v1.Group("/analytics", adminAuth)
	analytics.GET("", analyticsHandler.GetAnalytics)
	analytics.GET("/accounts/:username", analyticsHandler.GetAccountStats)

	engagement := v1.Group("/engagement", adminAuth)
	engagement.POST("/like", engagementHandler.LikePost)
	engagement.POST("/comment", engagementHandler.CommentPost)
	engagement.POST("/story", engagementHandler.WatchStory)
	engagement.POST("/follow", engagementHandler.FollowTarget)
	engagement.POST("/replies/check", engagementHandler.CheckReplies)
}
