// Package amqp publishes real-time fanout events to RabbitMQ. Room-keyed
// channels map onto routing keys of a topic exchange; the real-time gateway
// consuming the exchange forwards events to its websocket subscribers.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventsExchange is the topic exchange the fanout events are published to.
const EventsExchange = "delivery.events"

// envelope is the wire format of one event: the room it targets, the event
// kind, and the event payload.
type envelope struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Notifier implements ports.Notifier over a RabbitMQ topic exchange.
type Notifier struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to RabbitMQ and declares the events exchange.
func Dial(url string) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err = ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Notifier{conn: conn, ch: ch}, nil
}

// Close releases the channel and the connection.
func (n *Notifier) Close() {
	if n == nil {
		return
	}
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		_ = n.conn.Close()
	}
}

// Publish sends one event to the given room. One attempt, no retry; the
// caller decides whether a failure matters.
func (n *Notifier) Publish(ctx context.Context, channel, event string, payload any) error {
	body, err := json.Marshal(envelope{Channel: channel, Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return n.ch.PublishWithContext(ctx, EventsExchange, routingKey(channel), false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now().UTC(),
			Body:        body,
		})
}

// routingKey maps a room name onto an AMQP routing key. Rooms use colons
// ("user:<id>"); topic routing keys segment on dots, so subscribers can bind
// patterns like "user.*".
func routingKey(channel string) string {
	return strings.ReplaceAll(channel, ":", ".")
}
