package repository

import (
	"context"
	"errors"

	"TrenchScan/internal/domain/models"
)

// ErrNotModified is returned by Transport.Edit when the new text equals the
// current message text. The sequencer treats it as a successful no-op; any
// other edit error is escalated.
var ErrNotModified = errors.New("transport: message not modified")

// MessageRef is an opaque handle to a sent message, used for later edits.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Transport abstracts the chat layer: create one message, then edit it.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, text string) error
}

// Analyzer fetches the full analysis payload for a token address.
type Analyzer interface {
	Analyze(ctx context.Context, tokenAddress string) (*models.AnalysisPayload, error)
}

// Publisher emits analysis lifecycle events to downstream consumers.
type Publisher interface {
	PublishScan(ctx context.Context, event *models.ScanEvent) error
	Close() error
}

// Metrics records operational counters for scans and message edits.
type Metrics interface {
	RecordScan(outcome string)
	RecordEdit(outcome string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordSequenceDuration(seconds float64)
}
