// Package messaging streams ticket domain events to Kafka for downstream
// consumers such as reporting.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/servis-automat/servis/internal/domain/shared/events"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventWriter is an events.EventHandler that writes each event as JSON,
// keyed by aggregate ID so one ticket's events stay ordered in a partition.
type KafkaEventWriter struct {
	writer     messageWriter
	eventTypes map[string]struct{}
	logger     logger.Interface
}

func NewKafkaEventWriter(brokers []string, topic string, eventTypes []string, log logger.Interface) *KafkaEventWriter {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newKafkaEventWriter(w, eventTypes, log)
}

func newKafkaEventWriter(w messageWriter, eventTypes []string, log logger.Interface) *KafkaEventWriter {
	types := make(map[string]struct{}, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = struct{}{}
	}
	return &KafkaEventWriter{
		writer:     w,
		eventTypes: types,
		logger:     log,
	}
}

func (k *KafkaEventWriter) Name() string { return "kafka" }

func (k *KafkaEventWriter) CanHandle(eventType string) bool {
	_, ok := k.eventTypes[eventType]
	return ok
}

func (k *KafkaEventWriter) Handle(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.EventName(), err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: payload,
		Time:  event.At(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventName())},
		},
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s event to kafka: %w", event.EventName(), err)
	}

	k.logger.Debugw("event written to kafka",
		"event_type", event.EventName(),
		"aggregate_id", event.Key(),
	)
	return nil
}

func (k *KafkaEventWriter) Close() error {
	return k.writer.Close()
}
