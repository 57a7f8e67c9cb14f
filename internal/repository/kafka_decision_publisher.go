package repository

import (
	"context"

	"StockPulse/internal/domain/models"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
)

// KafkaDecisionPublisher mirrors emitted decisions onto a Kafka topic,
// keyed by symbol so one symbol's decisions stay ordered.
type KafkaDecisionPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	logger   *applogger.Logger
}

// NewKafkaDecisionPublisher wraps an existing producer.
func NewKafkaDecisionPublisher(producer *pkgkafka.Producer, topic string, logger *applogger.Logger) *KafkaDecisionPublisher {
	return &KafkaDecisionPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish sends one decision. Failures are the caller's to tolerate; the
// decision itself is already durable in the prediction log.
func (p *KafkaDecisionPublisher) Publish(ctx context.Context, d *models.Decision) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(d.Symbol), d); err != nil {
		p.logger.Warn("decision publish failed",
			applogger.String("symbol", d.Symbol),
			applogger.String("topic", p.topic),
			applogger.Error(err),
		)
		return err
	}
	return nil
}

// Close flushes and closes the underlying producer.
func (p *KafkaDecisionPublisher) Close() error {
	return p.producer.Close()
}
