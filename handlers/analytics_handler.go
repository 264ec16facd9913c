package handlers

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sheryyiee121/instagram-dm-bot/internal/repository"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/response"
)

type AnalyticsHandler struct {
	store *repository.Store
}

func NewAnalyticsHandler(store *repository.Store) *AnalyticsHandler {
	return &AnalyticsHandler{store: store}
}

// GetAnalytics godoc
// @Summary Get aggregate campaign analytics
// @Description Totals across deliveries, recipients and engagement actions
// @Tags analytics
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c echo.Context) error {
	snapshot, err := h.store.GetAnalyticsSnapshot(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, snapshot)
}

// GetAccountStats godoc
// @Summary Get per-account daily and engagement stats
// @Tags analytics
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param username path string true "Account username"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/analytics/accounts/{username} [get]
func (h *AnalyticsHandler) GetAccountStats(c echo.Context) error {
	username := c.Param("username")
	ctx := c.Request().Context()

	counter, err := h.store.GetDailyCounter(ctx, username, time.Now())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	engagement, err := h.store.GetEngagementStats(ctx, username)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"username":   username,
		"today":      counter,
		"engagement": engagement,
	})
}
