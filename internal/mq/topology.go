package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — имя обменника.
type Exchange string

// Queue — имя очереди.
type Queue string

// RoutingKey — ключ маршрутизации.
type RoutingKey string

// ExchangeEvents — единственный обменник событий (topic).
const ExchangeEvents Exchange = "trax.events"

// Очереди событий.
const (
	QueueWalletsProcessed Queue = "trax.wallets.processed"
	QueueSweepsCompleted  Queue = "trax.sweeps.completed"
)

// Routing keys совпадают с типами сообщений.
const (
	RoutingKeyWalletProcessed RoutingKey = "wallet.processed"
	RoutingKeySweepCompleted  RoutingKey = "sweep.completed"
	RoutingKeyAll             RoutingKey = "#"
)

// maxQueueLength ограничивает очереди без потребителя:
// при переполнении отбрасываются самые старые события.
const maxQueueLength = 10_000

// SetupTopology объявляет exchange, очереди и привязки (идемпотентно).
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeEvents), // name
			amqp.ExchangeTopic,     // type
			true,                   // durable
			false,                  // auto-deleted
			false,                  // internal
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeEvents, err)
		}

		args := amqp.Table{
			"x-max-length": int32(maxQueueLength),
			"x-overflow":   "drop-head",
		}

		bindings := []struct {
			queue      Queue
			routingKey RoutingKey
		}{
			{QueueWalletsProcessed, RoutingKeyWalletProcessed},
			{QueueSweepsCompleted, RoutingKeySweepCompleted},
		}

		for _, b := range bindings {
			if _, err := ch.QueueDeclare(string(b.queue), true, false, false, false, args); err != nil {
				return fmt.Errorf("declare queue %s: %w", b.queue, err)
			}
			if err := ch.QueueBind(string(b.queue), string(b.routingKey), string(ExchangeEvents), false, nil); err != nil {
				return fmt.Errorf("bind queue %s: %w", b.queue, err)
			}
		}

		return nil
	})
}
