package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange, key string
	msgs          []amqp.Publishing
	err           error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange, f.key = exchange, key
	f.msgs = append(f.msgs, msg)
	return nil
}

func TestRabbitMQ_PublishEncodesEvent(t *testing.T) {
	ch := &fakeChannel{}
	r := &RabbitMQ{pub: ch, exchange: "orders_exchange"}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	err := r.Publish(context.Background(), Event{
		Type:       OrderCreated,
		OrderID:    "o-1",
		Priority:   9,
		OccurredAt: at,
		Body:       map[string]any{"id": "o-1", "grandTotal": 1200.5},
	})
	require.NoError(t, err)

	require.Len(t, ch.msgs, 1)
	msg := ch.msgs[0]
	assert.Equal(t, "orders_exchange", ch.exchange)
	assert.Equal(t, OrderCreated, ch.key)
	assert.Equal(t, uint8(9), msg.Priority)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, at, msg.Timestamp)
	assert.Equal(t, "o-1:order.created", msg.MessageId)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "o-1", body["id"])
}

func TestRabbitMQ_PublishWrapsBrokerError(t *testing.T) {
	boom := errors.New("channel closed")
	r := &RabbitMQ{pub: &fakeChannel{err: boom}, exchange: "x"}

	err := r.Publish(context.Background(), Event{Type: OrderCancelled, OrderID: "o-2"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "o-2")
}
