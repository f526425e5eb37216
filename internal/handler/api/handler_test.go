package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"TrenchScan/internal/render"
	applogger "TrenchScan/pkg/logger"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	logger, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	e := echo.New()
	NewHandler(render.NewComposer(render.DefaultCatalog()), logger).RegisterRoutes(e)
	return e
}

func TestHealthz(t *testing.T) {
	e := newTestEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Status int `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != "ok" {
		t.Fatalf("health status = %q, want ok", resp.Data.Status)
	}
}

func TestRenderFrame(t *testing.T) {
	e := newTestEcho(t)

	body := `{
		"tokenAddress": "6V8q5kQkzokNwSxJv8W81zcKRUWsUW4c5Bf8suqipump",
		"payload": {
			"metadata": {"name": "Sample", "symbol": "SMPL"},
			"metrics": {"marketCap": 85000, "volume24h": 12000, "liquidityUSD": 9000},
			"analysis": {
				"bundles": {"value": "2 detected", "status": "warning"},
				"overallProbability": 72,
				"riskLevel": "Medium",
				"recommendation": "Watch dev wallets."
			}
		},
		"step": 1
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp.Data.Text, "Analyzing Token") {
		t.Fatalf("rendered text missing header:\n%s", resp.Data.Text)
	}
	if !strings.Contains(resp.Data.Text, "2 detected") {
		t.Fatalf("rendered text missing revealed step:\n%s", resp.Data.Text)
	}
	if strings.Contains(resp.Data.Text, "Overall Verdict") {
		t.Fatalf("verdict must stay hidden at step 1:\n%s", resp.Data.Text)
	}
}

func TestRenderFrameStepOutOfRange(t *testing.T) {
	e := newTestEcho(t)

	body := `{
		"tokenAddress": "6V8q5kQkzokNwSxJv8W81zcKRUWsUW4c5Bf8suqipump",
		"payload": {"metadata": {}, "metrics": {}, "analysis": {}},
		"step": 99
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Status int `json:"status"`
		Data   []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
	if len(resp.Data) != 1 || resp.Data[0].Code != "ERR_BAD_REQUEST" {
		t.Fatalf("error payload = %+v", resp.Data)
	}
	if !strings.Contains(resp.Data[0].Message, "step 99 out of range") {
		t.Fatalf("error message = %q", resp.Data[0].Message)
	}
}

func TestRenderFrameValidation(t *testing.T) {
	e := newTestEcho(t)

	req := httptest.NewRequest(http.MethodPost, "/api/render", strings.NewReader(`{"step": 1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
}
