package util

import (
	"context"
	"fmt"
	"time"

	"kiranastock/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer wraps a kafka-go writer for item change events
// (ITEM_CREATED, ITEM_UPDATED, ITEM_DELETED on the item_events topic).
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaProducer creates a producer for the given brokers and topic.
func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		// Low-traffic service: flush small batches quickly.
		BatchSize:    100,
		BatchTimeout: time.Second,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

// PublishMessage sends one message. The key is the item identifier, which
// keeps events for one item on one partition and therefore in order.
func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		metrics.KafkaErrors.WithLabelValues("inventory-service", p.topic, "produce").Inc()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	metrics.KafkaMessagesProduced.WithLabelValues("inventory-service", p.topic).Inc()
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
