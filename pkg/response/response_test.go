package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	return e.NewContext(req, rec), rec
}

func TestAccepted_ReturnsMessageAndData(t *testing.T) {
	c, rec := newContext()

	if err := Accepted(c, "work queued", map[string]int{"pending": 3}); err != nil {
		t.Fatalf("Accepted returned error: %v", err)
	}

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}

	var body SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if !body.Success {
		t.Errorf("expected Success=true, got false")
	}
	if body.Message != "work queued" {
		t.Errorf("expected message 'work queued', got %q", body.Message)
	}
}

func TestConflict_ReportsErrorMessage(t *testing.T) {
	c, rec := newContext()

	if err := Conflict(c, errors.New("already running")); err != nil {
		t.Fatalf("Conflict returned error: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body.Success {
		t.Errorf("expected Success=false, got true")
	}
	if body.Error != "already running" {
		t.Errorf("expected error 'already running', got %q", body.Error)
	}
}

func TestOk_WrapsData(t *testing.T) {
	c, rec := newContext()

	if err := Ok(c, []string{"a", "b"}); err != nil {
		t.Fatalf("Ok returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body SuccessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if !body.Success {
		t.Errorf("expected Success=true, got false")
	}
	if body.Data == nil {
		t.Errorf("expected data, got nil")
	}
}
