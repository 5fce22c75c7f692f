// Package amqp forwards change events to a RabbitMQ topic exchange so other
// services can follow ledger and budget changes.
package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// channel is the part of *amqp091.Channel the publisher uses
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher implements websocket.EventPublisher on top of an AMQP exchange
type Publisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
}

var _ websocket.EventPublisher = (*Publisher)(nil)

// Dial connects to the broker and declares the durable topic exchange
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string) *Publisher {
	return &Publisher{channel: ch, exchange: exchange}
}

// Publish sends the event to the exchange. Failures are logged and dropped:
// the HTTP write that produced the event has already succeeded.
func (p *Publisher) Publish(accountID uuid.UUID, event websocket.Event) {
	if err := p.publish(context.Background(), NewEventMessage(accountID, event)); err != nil {
		log.Error().Err(err).
			Str("account_id", accountID.String()).
			Str("event_type", event.Type).
			Msg("Failed to publish event to AMQP")
	}
}

func (p *Publisher) publish(ctx context.Context, msg EventMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,       // exchange
		msg.RoutingKey(), // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	log.Debug().
		Str("exchange", p.exchange).
		Str("routing_key", msg.RoutingKey()).
		Msg("Published event")
	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
