package models

import "encoding/json"

// Fixed keys inside the analysis object. Every other object-valued key is
// treated as a step result keyed by catalog step key.
var analysisFixedKeys = map[string]struct{}{
	"marketCapPredictions": {},
	"currentMarketCap":     {},
	"overallProbability":   {},
	"riskLevel":            {},
	"recommendation":       {},
}

type analysisFixed struct {
	Predictions        *Predictions `json:"marketCapPredictions,omitempty"`
	CurrentMarketCap   float64      `json:"currentMarketCap,omitempty"`
	OverallProbability *int         `json:"overallProbability,omitempty"`
	RiskLevel          string       `json:"riskLevel,omitempty"`
	Recommendation     string       `json:"recommendation,omitempty"`
}

// UnmarshalJSON decodes the fixed verdict/prediction fields and collects the
// remaining object-valued keys as step results.
func (a *Analysis) UnmarshalJSON(data []byte) error {
	var fixed analysisFixed
	if err := json.Unmarshal(data, &fixed); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	steps := make(map[string]*StepResult)
	for key, val := range raw {
		if _, ok := analysisFixedKeys[key]; ok {
			continue
		}
		if len(val) == 0 || val[0] != '{' {
			continue
		}
		var sr StepResult
		if err := json.Unmarshal(val, &sr); err != nil {
			continue
		}
		steps[key] = &sr
	}

	a.Steps = steps
	a.Predictions = fixed.Predictions
	a.CurrentMarketCap = fixed.CurrentMarketCap
	a.OverallProbability = fixed.OverallProbability
	a.RiskLevel = fixed.RiskLevel
	a.Recommendation = fixed.Recommendation
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON; it is used for cache
// round-trips and event publishing.
func (a *Analysis) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(a.Steps)+5)
	for key, sr := range a.Steps {
		out[key] = sr
	}
	if a.Predictions != nil {
		out["marketCapPredictions"] = a.Predictions
	}
	if a.CurrentMarketCap != 0 {
		out["currentMarketCap"] = a.CurrentMarketCap
	}
	if a.OverallProbability != nil {
		out["overallProbability"] = a.OverallProbability
	}
	if a.RiskLevel != "" {
		out["riskLevel"] = a.RiskLevel
	}
	if a.Recommendation != "" {
		out["recommendation"] = a.Recommendation
	}
	return json.Marshal(out)
}
