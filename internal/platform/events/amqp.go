// Package events delivers committed-mutation events to the surrounding
// system. The AMQP notifier publishes to a durable topic exchange; the log
// notifier is the in-process fallback when no broker is configured.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/brixal/wallet-backend/internal/core/domain"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/rabbitmq/amqp091-go"
)

// Exchange is the durable topic exchange all wallet events are published to.
// The event kind doubles as the routing key, so consumers can bind to
// patterns like "transfer.*" or "pending_fund.expired".
const Exchange = "wallet.events"

const dialTimeout = 10 * time.Second

// AMQPNotifier publishes events to RabbitMQ.
type AMQPNotifier struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *slog.Logger
}

var _ portssvc.Notifier = (*AMQPNotifier)(nil)

// NewAMQPNotifier dials the broker and declares the exchange.
func NewAMQPNotifier(amqpURL string, logger *slog.Logger) (*AMQPNotifier, error) {
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{Dial: amqp091.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPNotifier{conn: conn, channel: ch, logger: logger}, nil
}

// Publish sends the event to the exchange, routed by its kind. A failed
// publish reopens the channel and retries once before giving up.
func (n *AMQPNotifier) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   event.OccurredAt,
		Body:        body,
	}

	err = n.channel.PublishWithContext(ctx, Exchange, string(event.Kind), false, false, msg)
	if err == nil {
		return nil
	}

	n.logger.Warn("event publish failed, reopening channel", slog.String("kind", string(event.Kind)), slog.String("error", err.Error()))
	ch, chErr := n.conn.Channel()
	if chErr != nil {
		return err
	}
	n.channel = ch
	if exErr := n.channel.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); exErr != nil {
		return err
	}
	return n.channel.PublishWithContext(ctx, Exchange, string(event.Kind), false, false, msg)
}

// Close gracefully closes the channel and connection.
func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
