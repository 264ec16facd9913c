package handlers

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/sheryyiee121/instagram-dm-bot/internal/campaign"
	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/logger"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/response"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/validator"
)

type CampaignHandler struct {
	scheduler *campaign.Scheduler
	settings  *campaign.SettingsStore
	ctx       context.Context // app lifetime, outlives any single request
}

func NewCampaignHandler(scheduler *campaign.Scheduler, settings *campaign.SettingsStore, ctx context.Context) *CampaignHandler {
	return &CampaignHandler{
		scheduler: scheduler,
		settings:  settings,
		ctx:       ctx,
	}
}

// StartCampaign godoc
// @Summary Start a campaign run
// @Description Launches the DM campaign with the current settings, optionally overridden by the request body
// @Tags campaign
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "API key for campaign control"
// @Param settings body domain.CampaignSettings false "Settings overrides (optional)"
// @Success 202 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/campaign/start [post]
func (h *CampaignHandler) StartCampaign(c echo.Context) error {
	// Bind over the current settings so omitted fields keep their values.
	settings := h.settings.Get()
	if err := c.Bind(&settings); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&settings); err != nil {
		return validator.HandleValidationError(c, err)
	}

	h.settings.Update(settings)

	// The worker goroutine must outlive this request, so Start gets the
	// app context rather than the request context.
	if err := h.scheduler.Start(h.ctx, settings); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyRunning):
			return response.Conflict(c, err)
		case errors.Is(err, domain.ErrNoAccounts), errors.Is(err, domain.ErrNoRecipients):
			return response.BadRequest(c, err)
		default:
			return response.InternalServerError(c, err)
		}
	}

	return response.Accepted(c, "Campaign started", h.scheduler.Status(c.Request().Context()))
}

// StopCampaign godoc
// @Summary Stop the running campaign
// @Description Requests cooperative cancellation; the worker exits at its next checkpoint
// @Tags campaign
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "API key for campaign control"
// @Success 202 {object} response.SuccessResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/v1/campaign/stop [post]
func (h *CampaignHandler) StopCampaign(c echo.Context) error {
	if err := h.scheduler.Stop(); err != nil {
		return response.Conflict(c, err)
	}

	return response.Accepted(c, "Campaign stop requested", h.scheduler.Status(c.Request().Context()))
}

// GetCampaignStatus godoc
// @Summary Get campaign status
// @Description Returns whether a run is active plus account/recipient/sent counts
// @Tags campaign
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "API key for campaign control"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/campaign/status [get]
func (h *CampaignHandler) GetCampaignStatus(c echo.Context) error {
	return response.Ok(c, h.scheduler.Status(c.Request().Context()))
}

// GetRecentLogs godoc
// @Summary Get recent log lines
// @Description Returns the last captured log lines for the dashboard
// @Tags campaign
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "API key for campaign control"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/logs [get]
func (h *CampaignHandler) GetRecentLogs(c echo.Context) error {
	return response.Ok(c, map[string]any{
		"logs": logger.Recent(),
	})
}
