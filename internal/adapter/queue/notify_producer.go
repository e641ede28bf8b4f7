package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ezra-kip/farmlink-api/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName = "farmlink.notifications"
	routingKey   = "order.confirmation"
	// QueueName is the confirmation queue the worker consumes from.
	QueueName = "order.confirmation.q"
)

// NotifyProducer implements usecase.Notifier over RabbitMQ. Publishing is
// decoupled from order creation: the order has already committed by the time
// a message is enqueued, and a publish failure is the caller's to swallow.
type NotifyProducer struct {
	ch *amqp.Channel
}

// NewNotifyProducer sets up the exchange, queue, and binding once at startup.
func NewNotifyProducer(ch *amqp.Channel) (*NotifyProducer, error) {
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &NotifyProducer{ch: ch}, nil
}

func (p *NotifyProducer) EnqueueOrderConfirmation(ctx context.Context, msg usecase.OrderConfirmationMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         body,
	}

	if err := p.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

var _ usecase.Notifier = (*NotifyProducer)(nil)
