package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	applogger "TrenchScan/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordScan(string)              {}
func (nopMetrics) RecordEdit(string)              {}
func (nopMetrics) RecordError(string)             {}
func (nopMetrics) RecordLatency(string, float64)  {}
func (nopMetrics) RecordSequenceDuration(float64) {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

const analysisJSON = `{
	"metadata": {"name": "Trench Coin", "symbol": "TRENCH"},
	"metrics": {"marketCap": 2500000, "volume24h": 500, "liquidityUSD": 80000},
	"analysis": {
		"bundles": {"value": "2 bundles", "status": "warning", "reason": "two bundles at launch"},
		"devHistory": {"value": "Clean", "status": "safe", "reason": "no prior rugs"},
		"marketCapPredictions": {
			"conservative": {"mcap": 5000000, "multiplier": "2x", "probability": 70, "timeframe": "1 week"},
			"moderate": {"mcap": 12500000, "multiplier": "5x", "probability": 40, "timeframe": "1 month"},
			"aggressive": {"mcap": 25000000, "multiplier": "10x", "probability": 15, "timeframe": "3 months"}
		},
		"currentMarketCap": 2500000,
		"overallProbability": 72,
		"riskLevel": "Medium",
		"recommendation": "Small position only"
	}
}`

func TestAnalyzeDecodesPayload(t *testing.T) {
	var gotBody analyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze-token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := jsonDecode(r, &gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(analysisJSON))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, nopMetrics{}, testLogger(t))
	payload, err := c.Analyze(context.Background(), "sometokenaddress")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if gotBody.TokenAddress != "sometokenaddress" {
		t.Fatalf("request body token = %q", gotBody.TokenAddress)
	}
	if payload.Metadata.Name != "Trench Coin" {
		t.Fatalf("metadata name = %q", payload.Metadata.Name)
	}
	if payload.Metrics.MarketCap != 2500000 {
		t.Fatalf("marketCap = %v", payload.Metrics.MarketCap)
	}
	if payload.Analysis == nil || len(payload.Analysis.Steps) != 2 {
		t.Fatalf("expected 2 step results, got %+v", payload.Analysis)
	}
	if sr := payload.Analysis.Step("bundles"); sr == nil || sr.Status != "warning" {
		t.Fatalf("bundles step = %+v", sr)
	}
	if payload.Analysis.Predictions == nil || payload.Analysis.Predictions.Moderate.Mcap != 12500000 {
		t.Fatalf("predictions = %+v", payload.Analysis.Predictions)
	}
	if !payload.Analysis.HasVerdict() || *payload.Analysis.OverallProbability != 72 {
		t.Fatalf("verdict = %+v", payload.Analysis)
	}
}

func TestAnalyzeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message": "solana rpc unavailable"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, nopMetrics{}, testLogger(t))
	_, err := c.Analyze(context.Background(), "token")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "solana rpc unavailable" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestAnalyzeServerErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, nopMetrics{}, testLogger(t))
	_, err := c.Analyze(context.Background(), "token")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "" {
		t.Fatalf("expected empty message, got %q", apiErr.Message)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 20*time.Millisecond, nopMetrics{}, testLogger(t))
	_, err := c.Analyze(context.Background(), "token")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func jsonDecode(r *http.Request, dest interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dest)
}
