package models

import "time"

// Scan outcomes recorded in metrics and published events.
const (
	ScanCompleted      = "completed"
	ScanInvalidAddress = "invalid_address"
	ScanTimeout        = "timeout"
	ScanUpstreamError  = "upstream_error"
	ScanTransportError = "transport_error"
	ScanRateLimited    = "rate_limited"
)

// ScanEvent is published after each analysis request finishes, successfully
// or not. Consumers use it for auditing and alerting; the bot itself keeps
// no record of it.
type ScanEvent struct {
	TokenAddress string    `json:"token_address"`
	ChatID       int64     `json:"chat_id"`
	Outcome      string    `json:"outcome"`
	RiskLevel    string    `json:"risk_level,omitempty"`
	Probability  *int      `json:"probability,omitempty"`
	Duration     float64   `json:"duration_seconds"`
	Timestamp    time.Time `json:"timestamp"`
}
