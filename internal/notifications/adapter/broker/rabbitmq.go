// Package broker is the thin RabbitMQ wrapper for the status notification
// channel. It declares the fanout exchange the backend publishes to and binds
// a durable queue for this subscriber.
package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"check-please/internal/xpkg/config"
	"check-please/internal/xpkg/logger"
)

const (
	NotificationsExchange = "notifications_fanout"
	StatusQueue           = "order_status_queue"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mylog   logger.Logger
}

func New(cfg config.RabbitMQ, mylog logger.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare exchange and queue
	err = channel.ExchangeDeclare(
		NotificationsExchange, // name
		"fanout",              // type
		true,                  // durable
		false,                 // auto-deleted
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		StatusQueue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		amqp.Table{
			"x-dead-letter-exchange": "dlx",
		},
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = channel.QueueBind(
		StatusQueue,           // queue name
		"",                    // routing key
		NotificationsExchange, // exchange
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	mylog.Action("rabbitmq_connected").Info("Connected to RabbitMQ", "exchange", NotificationsExchange, "queue", StatusQueue)
	return &RabbitMQ{
		conn:    conn,
		channel: channel,
		mylog:   mylog,
	}, nil
}

// Consume starts delivering messages from the status queue.
func (r *RabbitMQ) Consume(ctx context.Context, consumerTag string) (<-chan amqp.Delivery, error) {
	deliveries, err := r.channel.ConsumeWithContext(ctx,
		StatusQueue, // queue
		consumerTag, // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}
	return deliveries, nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
