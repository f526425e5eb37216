package models

// Step status tags as returned by the analysis API.
const (
	StatusSafe    = "safe"
	StatusWarning = "warning"
	StatusDanger  = "danger"
	StatusInfo    = "info"
	StatusNeutral = "neutral"
)

// Risk levels carried by the final verdict.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// TokenMetadata identifies the analyzed token.
type TokenMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// TokenMetrics holds the on-chain market figures for the token.
type TokenMetrics struct {
	MarketCap    float64 `json:"marketCap"`
	Volume24h    float64 `json:"volume24h"`
	LiquidityUSD float64 `json:"liquidityUSD"`
}

// StepResult is one per-step outcome from the analysis API. A step may be
// absent from the payload entirely, which means "not available yet".
type StepResult struct {
	Value  string `json:"value"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Scenario is one market cap prediction scenario.
type Scenario struct {
	Mcap        float64 `json:"mcap"`
	Multiplier  string  `json:"multiplier"`
	Probability int     `json:"probability"`
	Timeframe   string  `json:"timeframe"`
}

// Predictions groups the three prediction scenarios.
type Predictions struct {
	Conservative Scenario `json:"conservative"`
	Moderate     Scenario `json:"moderate"`
	Aggressive   Scenario `json:"aggressive"`
}

// Analysis is the step map plus the optional predictions/verdict blocks.
// Steps are keyed by catalog step key (e.g. "bundles", "devHistory").
type Analysis struct {
	Steps              map[string]*StepResult `json:"-"`
	Predictions        *Predictions           `json:"marketCapPredictions,omitempty"`
	CurrentMarketCap   float64                `json:"currentMarketCap,omitempty"`
	OverallProbability *int                   `json:"overallProbability,omitempty"`
	RiskLevel          string                 `json:"riskLevel,omitempty"`
	Recommendation     string                 `json:"recommendation,omitempty"`
}

// Step returns the result for a step key, or nil when not present.
func (a *Analysis) Step(key string) *StepResult {
	if a == nil {
		return nil
	}
	return a.Steps[key]
}

// HasVerdict reports whether the payload carries a final verdict.
func (a *Analysis) HasVerdict() bool {
	return a != nil && a.OverallProbability != nil
}

// Verdict is the overall assessment shown at the end of a sequence.
type Verdict struct {
	Probability    int
	RiskLevel      string
	Recommendation string
}

// Verdict extracts the verdict block, or nil when absent.
func (a *Analysis) Verdict() *Verdict {
	if !a.HasVerdict() {
		return nil
	}
	return &Verdict{
		Probability:    *a.OverallProbability,
		RiskLevel:      a.RiskLevel,
		Recommendation: a.Recommendation,
	}
}

// AnalysisPayload is the full response for one token. It is owned by a
// single in-flight request and never mutated after decoding.
type AnalysisPayload struct {
	Metadata TokenMetadata `json:"metadata"`
	Metrics  TokenMetrics  `json:"metrics"`
	Analysis *Analysis     `json:"analysis"`
}
