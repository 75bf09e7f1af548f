package consumer

import (
	"context"
	"errors"

	"resort/config"
	"resort/internal/domains/notification/service"
	"resort/shared/event"
	"resort/shared/metrics"

	"github.com/rs/zerolog/log"
)

const group = "notification"

// ReservationConsumer turns reservation events into inbox notifications.
type ReservationConsumer struct {
	subscriber event.Subscriber
	service    service.Notification
	metrics    *metrics.Metrics
	topic      string
}

func NewReservationConsumer(subscriber event.Subscriber, svc service.Notification, cfg *config.Config, m *metrics.Metrics) *ReservationConsumer {
	return &ReservationConsumer{
		subscriber: subscriber,
		service:    svc,
		metrics:    m,
		topic:      cfg.Broker.Topics.Reservation,
	}
}

// Start consumes reservation events until ctx is cancelled.
func (c *ReservationConsumer) Start(ctx context.Context) error {
	log.Info().Str("topic", c.topic).Str("group", group).Msg("Starting reservation event consumer")

	err := c.subscriber.Subscribe(ctx, group, c.topic, c.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err //nolint:wrapcheck
	}

	return nil
}

// Handle processes a single message. Malformed payloads are dropped; storage errors are returned
// so the broker can redeliver.
func (c *ReservationConsumer) Handle(ctx context.Context, message event.Message) (err error) {
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultFailure
		}

		if c.metrics != nil {
			c.metrics.BrokerMessage(c.topic, metrics.DirectionConsume, result)
		}
	}()

	switch message.Type {
	case event.TypeReservationCreated, event.TypeReservationUpdated, event.TypeReservationStatusChanged:
	default:
		log.Debug().Str("type", message.Type).Msg("ignoring unhandled reservation event type")

		return nil
	}

	payload, err := event.DecodePayload[event.ReservationPayload](message)
	if err != nil {
		log.Error().Err(err).Str("key", message.Key).Msg("failed to parse reservation event payload")

		return nil
	}

	return c.service.NotifyReservation(ctx, message, payload) //nolint:wrapcheck
}
