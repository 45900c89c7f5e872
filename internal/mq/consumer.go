package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler обрабатывает одно событие.
type Handler func(ctx context.Context, msg *Message) error

// ConsumerConfig — конфигурация Consumer.
type ConsumerConfig struct {
	// Queue — durable очередь. Пустая — временная exclusive очередь,
	// привязанная к ExchangeEvents по Bindings (не забирает события
	// из durable очередей).
	Queue Queue

	// Bindings — routing keys для временной очереди (default: все).
	Bindings []RoutingKey

	Handler Handler
}

// Consumer читает события из RabbitMQ.
type Consumer struct {
	conn   *Connection
	logger *slog.Logger
	cfg    ConsumerConfig
}

// NewConsumer создаёт Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Bindings) == 0 {
		cfg.Bindings = []RoutingKey{RoutingKeyAll}
	}
	return &Consumer{conn: conn, logger: logger, cfg: cfg}
}

// Run потребляет события до отмены ctx, переподключаясь при разрыве.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		deliveries, autoAck, err := c.subscribe(ctx)
		if err != nil {
			c.logger.Warn("failed to subscribe", "error", err)
		} else {
			c.drain(ctx, deliveries, autoAck)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-c.conn.Reconnected():
			c.logger.Info("reconnected, resubscribing")
		}
	}
}

// subscribe начинает потребление. Временная очередь читается в auto-ack режиме.
func (c *Consumer) subscribe(ctx context.Context) (<-chan amqp.Delivery, bool, error) {
	var deliveries <-chan amqp.Delivery
	autoAck := false

	err := c.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		queue := string(c.cfg.Queue)

		if queue == "" {
			q, err := ch.QueueDeclare("", false, true, true, false, nil)
			if err != nil {
				return fmt.Errorf("declare tail queue: %w", err)
			}
			for _, key := range c.cfg.Bindings {
				if err := ch.QueueBind(q.Name, string(key), string(ExchangeEvents), false, nil); err != nil {
					return fmt.Errorf("bind tail queue: %w", err)
				}
			}
			queue = q.Name
			autoAck = true
		}

		d, err := ch.ConsumeWithContext(ctx, queue, "", autoAck, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("consume %s: %w", queue, err)
		}
		deliveries = d
		return nil
	})
	return deliveries, autoAck, err
}

// drain обрабатывает доставки до отмены ctx или закрытия канала.
func (c *Consumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery, autoAck bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-deliveries:
			if !ok {
				return
			}
			if err := c.handle(ctx, raw, autoAck); err != nil && !errors.Is(err, context.Canceled) {
				c.logger.Error("handler failed", "message_id", raw.MessageId, "error", err)
			}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, raw amqp.Delivery, autoAck bool) error {
	var msg Message
	err := json.Unmarshal(raw.Body, &msg)
	if err != nil {
		err = fmt.Errorf("unmarshal message: %w", err)
	} else {
		err = c.cfg.Handler(ctx, &msg)
	}

	if !autoAck {
		if err == nil {
			_ = raw.Ack(false)
		} else {
			_ = raw.Nack(false, false)
		}
	}
	return err
}
