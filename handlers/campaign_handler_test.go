package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sheryyiee121/instagram-dm-bot/environments"
	"github.com/sheryyiee121/instagram-dm-bot/internal/campaign"
	"github.com/sheryyiee121/instagram-dm-bot/pkg/response"
	validatorpkg "github.com/sheryyiee121/instagram-dm-bot/pkg/validator"
)

func testCampaignConfig() environments.CampaignConfig {
	return environments.CampaignConfig{
		TotalQuota:           100,
		PerAccountQuota:      25,
		DelayBetweenMessages: 20,
		DelayBetweenAccounts: 2,
		AutoEngage:           true,
		AutoLike:             true,
		AutoStory:            true,
		UseInteractiveLogin:  true,
	}
}

// TestStartCampaign_BadJSON verifies that invalid JSON returns 400 Bad Request.
func TestStartCampaign_BadJSON(t *testing.T) {
	e := echo.New()
	// Scheduler is nil on purpose; Bind fails before it is touched.
	handler := NewCampaignHandler(nil, campaign.NewSettingsStore(testCampaignConfig()), context.Background())

	reqBody := `{"totalQuota": 50,`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaign/start", strings.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.StartCampaign(c); err != nil {
		t.Fatalf("StartCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}

	var resp response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if resp.Success {
		t.Fatal("expected Success=false, got true")
	}
}

// TestStartCampaign_InvalidQuota verifies that a zero quota fails validation
// with 422 before the scheduler is touched.
func TestStartCampaign_InvalidQuota(t *testing.T) {
	e := echo.New()
	e.Validator = validatorpkg.New()

	handler := NewCampaignHandler(nil, campaign.NewSettingsStore(testCampaignConfig()), context.Background())

	reqBody := `{"totalQuota": 0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaign/start", strings.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.StartCampaign(c); err != nil {
		t.Fatalf("StartCampaign returned error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}

	var resp validatorpkg.ValidationErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}
	if _, ok := resp.Details["totalQuota"]; !ok {
		t.Fatalf("expected Details to contain 'totalQuota', got %v", resp.Details)
	}
}

// TestStartCampaign_OverridesMergeWithCurrentSettings verifies that omitted
// fields keep their configured values when a partial override body is sent.
func TestStartCampaign_OverridesMergeWithCurrentSettings(t *testing.T) {
	e := echo.New()
	e.Validator = validatorpkg.New()

	settings := campaign.NewSettingsStore(testCampaignConfig())
	handler := NewCampaignHandler(nil, settings, context.Background())

	reqBody := `{"totalQuota": 7, "perAccountQuota": 0}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaign/start", strings.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// perAccountQuota=0 fails validation; the stored settings stay intact.
	if err := handler.StartCampaign(c); err != nil {
		t.Fatalf("StartCampaign returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}
	if got := settings.Get().TotalQuota; got != 100 {
		t.Errorf("rejected overrides must not stick, TotalQuota=%d", got)
	}
}
