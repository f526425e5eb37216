// Package repository provides the Kafka-backed implementations of the
// domain's outbound interfaces.
package repository

import (
	"context"
	"fmt"

	"TrenchScan/internal/domain/models"
	domainrepo "TrenchScan/internal/domain/repository"
	"TrenchScan/pkg/kafka"
	applogger "TrenchScan/pkg/logger"
)

// EventPublisher publishes scan lifecycle events to a Kafka topic, keyed by
// token address so events for one token land on one partition.
type EventPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *applogger.Logger
}

// NewEventPublisher creates a publisher over an existing producer.
func NewEventPublisher(producer *kafka.Producer, topic string, logger *applogger.Logger) domainrepo.Publisher {
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// PublishScan writes one event. The producer JSON-encodes the value.
func (p *EventPublisher) PublishScan(ctx context.Context, event *models.ScanEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(event.TokenAddress), event); err != nil {
		return fmt.Errorf("publish scan event: %w", err)
	}
	p.logger.Debug("scan event published",
		applogger.String("topic", p.topic),
		applogger.String("token", event.TokenAddress),
		applogger.String("outcome", event.Outcome))
	return nil
}

// Close flushes and closes the underlying producer.
func (p *EventPublisher) Close() error {
	return p.producer.Close()
}
