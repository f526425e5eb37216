package models

import (
	"encoding/json"
	"testing"
)

func TestAnalysisUnmarshalSplitsStepAndFixedKeys(t *testing.T) {
	raw := `{
		"bundles": {"value": "2 detected", "status": "warning", "reason": "linked buys"},
		"devHistory": {"value": "clean", "status": "safe"},
		"marketCapPredictions": {
			"conservative": {"mcap": 150000, "multiplier": "2x", "probability": 60, "timeframe": "1 week"},
			"moderate": {"mcap": 400000, "multiplier": "5x", "probability": 30, "timeframe": "2 weeks"},
			"aggressive": {"mcap": 1200000, "multiplier": "15x", "probability": 10, "timeframe": "1 month"}
		},
		"currentMarketCap": 85000,
		"overallProbability": 72,
		"riskLevel": "Medium",
		"recommendation": "Watch dev wallets."
	}`

	var a Analysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(a.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(a.Steps))
	}
	if got := a.Step("bundles"); got == nil || got.Status != StatusWarning || got.Reason != "linked buys" {
		t.Fatalf("bundles step = %+v", got)
	}
	if a.Step("marketCapPredictions") != nil {
		t.Fatal("predictions block leaked into steps")
	}
	if a.Predictions == nil || a.Predictions.Moderate.Multiplier != "5x" {
		t.Fatalf("predictions = %+v", a.Predictions)
	}
	if !a.HasVerdict() || *a.OverallProbability != 72 || a.RiskLevel != RiskMedium {
		t.Fatalf("verdict fields: prob=%v risk=%q", a.OverallProbability, a.RiskLevel)
	}
}

func TestAnalysisMarshalRoundTrip(t *testing.T) {
	prob := 40
	a := &Analysis{
		Steps: map[string]*StepResult{
			"lore": {Value: "strong narrative", Status: StatusInfo},
		},
		CurrentMarketCap:   12000,
		OverallProbability: &prob,
		RiskLevel:          RiskHigh,
		Recommendation:     "Avoid.",
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Analysis
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := back.Step("lore"); got == nil || got.Value != "strong narrative" {
		t.Fatalf("lore step = %+v", got)
	}
	if !back.HasVerdict() || *back.OverallProbability != 40 || back.RiskLevel != RiskHigh {
		t.Fatalf("verdict lost in round trip: %+v", back)
	}
	if back.CurrentMarketCap != 12000 {
		t.Fatalf("currentMarketCap = %v", back.CurrentMarketCap)
	}
}

func TestNilAnalysisAccessors(t *testing.T) {
	var a *Analysis
	if a.Step("bundles") != nil {
		t.Fatal("nil analysis must have no steps")
	}
	if a.HasVerdict() {
		t.Fatal("nil analysis must have no verdict")
	}
	if a.Verdict() != nil {
		t.Fatal("nil analysis verdict must be nil")
	}
}
