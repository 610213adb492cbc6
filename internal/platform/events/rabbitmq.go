// Package events publishes swap outcomes to RabbitMQ. Downstream consumers
// (reconciliation tooling, notifications, analytics) subscribe to the topic
// exchange without the API server knowing about them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portsevents "github.com/2025XRRPKOREA/api-server/internal/core/ports/events"
	"github.com/avast/retry-go/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

// rabbitPublisher pushes swap results to a topic exchange.
type rabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewRabbitPublisher connects to RabbitMQ and declares the topic exchange.
// Brokers tend to come up after the API server in containerized setups, so
// the dial retries with a fixed delay before giving up.
func NewRabbitPublisher(url, exchange string) (portsevents.Publisher, error) {
	var conn *amqp.Connection
	err := retry.Do(
		func() error {
			var dialErr error
			conn, dialErr = amqp.Dial(url)
			return dialErr
		},
		retry.Attempts(5),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not declare exchange %s: %w", exchange, err)
	}

	return &rabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Ensure rabbitPublisher implements the portsevents.Publisher interface
var _ portsevents.Publisher = (*rabbitPublisher)(nil)

// PublishSwapResult emits the result on the topic exchange.
func (p *rabbitPublisher) PublishSwapResult(ctx context.Context, result domain.SwapResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal swap result: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		p.exchange,
		routingKey(result),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   result.SwapID,
			Timestamp:   result.ExecutedAt,
			Body:        body,
		},
	)
}

// Close shuts the channel and connection down.
func (p *rabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// routingKey derives the topic for a result: swap.<type>.<status>, for
// example swap.xrp_to_iou.succeeded. Consumers bind with patterns like
// swap.*.partial to watch for swaps needing reconciliation.
func routingKey(result domain.SwapResult) string {
	return fmt.Sprintf("swap.%s.%s",
		strings.ToLower(string(result.SwapType)),
		strings.ToLower(string(result.Status)),
	)
}
