package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"proxyauth/internal/platform/kafka"
)

// DefaultTopic is the Kafka topic widget action events land on.
const DefaultTopic = "widget.actions"

// Kafka publishes audit events to a Kafka topic, keyed by session so one
// session's actions stay ordered within a partition.
type Kafka struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafka creates a Kafka-backed publisher. An empty topic selects
// DefaultTopic.
func NewKafka(producer *kafka.Producer, topic string, logger *slog.Logger) *Kafka {
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{producer: producer, topic: topic, logger: logger}
}

// Publish encodes and produces the event synchronously.
func (k *Kafka) Publish(ctx context.Context, e *Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	msg := &kafka.Message{
		Topic: k.topic,
		Key:   []byte(e.SessionID),
		Value: value,
		Headers: map[string]string{
			"embed_type": e.EmbedType.String(),
			"action":     e.Action,
		},
	}
	if err := k.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}
