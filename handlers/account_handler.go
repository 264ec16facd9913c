package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/sheryyiee121/instagram-dm-bot/internal/domain"
	"github.com/sheryyiee121/instagram-dm-bot/internal/repository"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/response"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/validator"
)

type AccountHandler struct {
	store *repository.Store
}

func NewAccountHandler(store *repository.Store) *AccountHandler {
	return &AccountHandler{store: store}
}

type addAccountRequest struct {
	Username string  `json:"username" validate:"required,ig_username"`
	Password string  `json:"password" validate:"required,min=6"`
	Proxy    *string `json:"proxy,omitempty" validate:"omitempty,url"`
}

type setProxyRequest struct {
	Proxy *string `json:"proxy" validate:"omitempty,url"`
}

// ListAccounts godoc
// @Summary List active sender accounts
// @Tags accounts
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/accounts [get]
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.store.ListActiveAccounts(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, accounts)
}

// AddAccount godoc
// @Summary Add or reactivate a sender account
// @Tags accounts
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param account body addAccountRequest true "Account credentials"
// @Success 201 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/accounts [post]
func (h *AccountHandler) AddAccount(c echo.Context) error {
	var req addAccountRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	if err := h.store.UpsertAccount(c.Request().Context(), req.Username, req.Password, req.Proxy); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Created(c, "Account saved", map[string]string{"username": req.Username})
}

// RemoveAccount godoc
// @Summary Deactivate a sender account
// @Description Soft-deletes the account; its history stays intact
// @Tags accounts
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param username path string true "Account username"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/accounts/{username} [delete]
func (h *AccountHandler) RemoveAccount(c echo.Context) error {
	username := c.Param("username")

	if err := h.store.DeactivateAccount(c.Request().Context(), username); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "account not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Account deactivated", map[string]string{"username": username})
}

// SetAccountProxy godoc
// @Summary Set or clear an account's proxy
// @Tags accounts
// @Accept json
// @Produce json
// @Param x-ig-auth-key header string true "Admin API key"
// @Param username path string true "Account username"
// @Param proxy body setProxyRequest true "Proxy URL, null to clear"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/accounts/{username}/proxy [put]
func (h *AccountHandler) SetAccountProxy(c echo.Context) error {
	username := c.Param("username")

	var req setProxyRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	if err := h.store.SetAccountProxy(c.Request().Context(), username, req.Proxy); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return response.NotFound(c, "account not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Proxy updated", map[string]string{"username": username})
}
