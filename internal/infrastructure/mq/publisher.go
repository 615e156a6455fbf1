// Package mq publishes notification events to a RabbitMQ topic exchange so
// downstream channels (email, push) can fan out independently.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"drivehub-booking/internal/notify"
)

type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

var _ notify.Sink = (*Publisher)(nil)

// message is the wire shape of a published notification.
type message struct {
	Recipient string         `json:"recipient"`
	Role      string         `json:"role"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	BookingID string         `json:"booking_id"`
	Data      map[string]any `json:"data,omitempty"`
	EmittedAt time.Time      `json:"emitted_at"`
}

// Publish sends the event with routing key "booking.<type>".
func (p *Publisher) Publish(ctx context.Context, ev notify.Event) error {
	b, err := json.Marshal(message{
		Recipient: ev.Recipient,
		Role:      string(ev.Role),
		Type:      string(ev.Type),
		Title:     ev.Title,
		Message:   ev.Message,
		BookingID: ev.BookingID,
		Data:      ev.Data,
		EmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	key := "booking." + string(ev.Type)
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        b,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
