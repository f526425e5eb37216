package repository

import (
	"context"

	"TrenchScan/pkg/kafka"
)

// LogSink adapts the Kafka producer to the logger collector's Publisher
// interface so aggregated error logs flow to their own topic.
type LogSink struct {
	producer *kafka.Producer
}

// NewLogSink creates a log sink over an existing producer.
func NewLogSink(producer *kafka.Producer) *LogSink {
	return &LogSink{producer: producer}
}

// PublishMessage writes one aggregated log batch. Batches are unkeyed; any
// partition will do.
func (s *LogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}
