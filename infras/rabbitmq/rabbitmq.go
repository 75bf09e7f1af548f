package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"resort/config"
	"resort/shared/constant"
	"resort/shared/event"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	exchangeKind      = "fanout"
	initialBackoff    = time.Second
	maxBackoff        = 30 * time.Second
	reconnectInterval = 2 * time.Second
)

var errDeliveriesClosed = errors.New("deliveries channel closed")

type brokerImpl struct {
	config *config.Config

	mu   sync.Mutex
	conn *amqp.Connection
}

// New returns a broker that maps every topic to a durable fanout exchange.
// Each consumer group owns one durable queue bound to that exchange.
func New(config *config.Config) event.Broker {
	log.Info().Msg("RabbitMQ client initialized")

	return &brokerImpl{config: config}
}

func queueName(group, topic string) string {
	if group == "" {
		return topic
	}

	return group + "." + topic
}

func (b *brokerImpl) connection() (*amqp.Connection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil && !b.conn.IsClosed() {
		return b.conn, nil
	}

	conn, err := amqp.Dial(b.config.Broker.RabbitMQ.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	b.conn = conn

	return conn, nil
}

// Publish implements event.Publisher. Messages are persistent JSON.
func (b *brokerImpl) Publish(ctx context.Context, topic string, messages ...event.Message) error {
	conn, err := b.connection()
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to connect to RabbitMQ.")

		return err
	}

	channel, err := conn.Channel()
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to open RabbitMQ channel.")

		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	defer func() { _ = channel.Close() }()

	if err = channel.ExchangeDeclare(topic, exchangeKind, true, false, false, false, nil); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to declare RabbitMQ exchange.")

		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	for _, message := range messages {
		body, err := message.Encode()
		if err != nil {
			return err //nolint:wrapcheck
		}

		publishing := amqp.Publishing{
			ContentType:  constant.ContentTypeJSON,
			DeliveryMode: amqp.Persistent,
			Timestamp:    message.OccurredAt,
			Type:         message.Type,
			MessageId:    message.Key,
			Body:         body,
		}

		if err = channel.PublishWithContext(ctx, topic, message.Key, false, false, publishing); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to publish message to RabbitMQ.")

			return fmt.Errorf("failed to publish message to RabbitMQ: %w", err)
		}
	}

	log.Info().Str("topic", topic).Int("count", len(messages)).Msg("Sent message successfully.")

	return nil
}

// Subscribe implements event.Subscriber. It reconnects with exponential backoff until ctx is done.
// Failed messages are rejected without requeue.
func (b *brokerImpl) Subscribe(ctx context.Context, group, topic string, handler event.Handler) error {
	backoff := initialBackoff

	for {
		conn, err := b.connection()
		if err != nil {
			log.Error().Err(err).Dur("backoff", backoff).Msg("Failed to connect to RabbitMQ, retrying.")

			if !sleep(ctx, backoff) {
				return nil
			}

			backoff = min(backoff*2, maxBackoff)

			continue
		}

		backoff = initialBackoff

		err = b.consume(ctx, conn, group, topic, handler)
		if ctx.Err() != nil {
			log.Info().Str("topic", topic).Msg("Consumer context done.")

			return nil
		}

		log.Error().Err(err).Str("topic", topic).Msg("RabbitMQ consume loop ended, reconnecting.")

		if !sleep(ctx, reconnectInterval) {
			return nil
		}
	}
}

func (b *brokerImpl) consume(ctx context.Context, conn *amqp.Connection, group, topic string, handler event.Handler) error {
	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}

	defer func() { _ = channel.Close() }()

	if err = channel.Qos(b.config.Broker.RabbitMQ.Prefetch, 0, false); err != nil {
		log.Warn().Err(err).Msg("Failed to set RabbitMQ QoS.")
	}

	if err = channel.ExchangeDeclare(topic, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}

	queue, err := channel.QueueDeclare(queueName(group, topic), true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	if err = channel.QueueBind(queue.Name, "", topic, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	deliveries, err := channel.ConsumeWithContext(ctx, queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for delivery := range deliveries {
		message, err := event.DecodeMessage(delivery.Body)
		if err == nil {
			err = handler(ctx, message)
		}

		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to handle RabbitMQ message, rejecting.")

			_ = delivery.Nack(false, false)

			continue
		}

		_ = delivery.Ack(false)
	}

	return errDeliveriesClosed
}

func (b *brokerImpl) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil || b.conn.IsClosed() {
		return nil
	}

	if err := b.conn.Close(); err != nil {
		return fmt.Errorf("failed to close RabbitMQ connection: %w", err)
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
