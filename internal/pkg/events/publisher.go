// Package events publishes order lifecycle events to RabbitMQ.
package events

import (
	"context"
	"time"
)

const (
	OrderCreated   = "order.created"
	OrderCancelled = "order.cancelled"
)

// Event is one message on the order exchange. Body is encoded as JSON.
type Event struct {
	Type       string
	OrderID    string
	Priority   uint8
	OccurredAt time.Time
	Body       any
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event. It stands in when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
