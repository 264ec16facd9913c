package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/sheryyiee121/instagram-dm-bot/internal/campaign"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/response"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/validator"
)

type SettingsHandler struct {
	settings *campaign.SettingsStore
}

func NewSettingsHandler(settings *campaign.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings godoc
// @Summary Get campaign settings
// @Tags settings
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	return response.Ok(c, h.settings.Get())
}

// UpdateSettings godoc
// @Summary Update campaign settings
// @Description Partial update; omitted fields keep their current values. Takes effect on the next run.
// @Tags settings
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param settings body domain.CampaignSettings true "Settings fields to change"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/settings [put]
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	// Bind over the current snapshot so a partial body acts as a merge.
	settings := h.settings.Get()
	if err := c.Bind(&settings); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&settings); err != nil {
		return validator.HandleValidationError(c, err)
	}

	h.settings.Update(settings)

	return response.OkWithMessage(c, "Settings updated", h.settings.Get())
}
