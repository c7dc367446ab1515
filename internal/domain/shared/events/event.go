// Package events carries facts from committed writes to asynchronous
// subscribers such as e-mail notifications and the Kafka feed.
package events

import (
	"context"
	"time"
)

// DomainEvent is published by a use case after its write committed.
type DomainEvent interface {
	EventName() string
	Key() string
	At() time.Time
}

// Meta is embedded by every concrete event. The JSON tags are the wire
// contract of the Kafka feed.
type Meta struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	Version     int       `json:"version"`
}

func NewMeta(aggregateID, eventType string, occurredAt time.Time) Meta {
	return Meta{AggregateID: aggregateID, EventType: eventType, OccurredAt: occurredAt.UTC(), Version: 1}
}

func (m Meta) EventName() string { return m.EventType }
func (m Meta) Key() string       { return m.AggregateID }
func (m Meta) At() time.Time     { return m.OccurredAt }

// EventHandler reacts to published events. Its errors are logged by the
// dispatcher and never reach the publisher.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	CanHandle(eventType string) bool
}

type EventPublisher interface {
	// Publish enqueues without blocking.
	Publish(event DomainEvent) error
}

type EventSubscriber interface {
	Subscribe(eventType string, handler EventHandler) error
}

// FuncHandler adapts a function to EventHandler for one event type.
type FuncHandler struct {
	eventType string
	fn        func(ctx context.Context, event DomainEvent) error
}

func NewFuncHandler(eventType string, fn func(ctx context.Context, event DomainEvent) error) *FuncHandler {
	return &FuncHandler{eventType: eventType, fn: fn}
}

func (h *FuncHandler) Handle(ctx context.Context, event DomainEvent) error {
	if h.fn == nil {
		return nil
	}
	return h.fn(ctx, event)
}

func (h *FuncHandler) CanHandle(eventType string) bool {
	return h.eventType == AllEvents || h.eventType == eventType
}
