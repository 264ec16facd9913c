package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/sheryyiee121/instagram-dm-bot/internal/repository"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/response"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/validator"
)

type RecipientHandler struct {
	store *repository.Store
}

func NewRecipientHandler(store *repository.Store) *RecipientHandler {
	return &RecipientHandler{store: store}
}

type enqueueRecipientsRequest struct {
	Usernames  []string          `json:"usernames" validate:"required,min=1,dive,ig_username"`
	Firstnames map[string]string `json:"firstnames,omitempty"`
}

// EnqueueRecipients godoc
// @Summary Enqueue recipients for messaging
// @Description Adds usernames to the pending queue; duplicates and already-processed names are ignored
// @Tags recipients
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param recipients body enqueueRecipientsRequest true "Usernames and optional first names"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/recipients [post]
func (h *RecipientHandler) EnqueueRecipients(c echo.Context) error {
	var req enqueueRecipientsRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	if err := h.store.EnqueueRecipients(c.Request().Context(), req.Usernames, req.Firstnames); err != nil {
		return response.InternalServerError(c, err)
	}

	pending, err := h.store.CountUnprocessedRecipients(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, "Recipients enqueued", map[string]any{
		"submitted": len(req.Usernames),
		"pending":   pending,
	})
}

// ListPendingRecipients godoc
// @Summary List pending recipients
// @Description Returns unprocessed recipients in queue order, up to the given limit
// @Tags recipients
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param limit query int false "Max rows to return (default 50)"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/recipients/pending [get]
func (h *RecipientHandler) ListPendingRecipients(c echo.Context) error {
	limit := 50
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return response.BadRequest(c, err)
	}

	recipients, err := h.store.NextUnprocessedRecipients(c.Request().Context(), limit)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	pending, err := h.store.CountUnprocessedRecipients(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"pending":    pending,
		"recipients": recipients,
	})
}
