package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQ struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	pub      channel
	exchange string
}

// NewRabbitMQ dials url and declares a durable fanout exchange bound to a
// priority queue.
func NewRabbitMQ(url, exchange, queue string, maxPriority int) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}
	r := &RabbitMQ{conn: conn, ch: ch, pub: ch, exchange: exchange}
	if err := r.setup(queue, maxPriority); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) setup(queue string, maxPriority int) error {
	if err := r.ch.ExchangeDeclare(
		r.exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("events: declare exchange %q: %w", r.exchange, err)
	}

	if _, err := r.ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-max-priority": maxPriority},
	); err != nil {
		return fmt.Errorf("events: declare queue %q: %w", queue, err)
	}

	if err := r.ch.QueueBind(queue, "", r.exchange, false, nil); err != nil {
		return fmt.Errorf("events: bind queue %q: %w", queue, err)
	}
	return nil
}

func (r *RabbitMQ) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e.Body)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", e.Type, err)
	}
	ts := e.OccurredAt
	if ts.IsZero() {
		ts = time.Now()
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts,
		ContentType:  "application/json",
		Type:         e.Type,
		MessageId:    e.OrderID + ":" + e.Type,
		Body:         body,
		Priority:     e.Priority,
	}
	if err := r.pub.PublishWithContext(ctx, r.exchange, e.Type, false, false, msg); err != nil {
		return fmt.Errorf("events: publish %s for %s: %w", e.Type, e.OrderID, err)
	}
	return nil
}

func (r *RabbitMQ) Close() {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}
