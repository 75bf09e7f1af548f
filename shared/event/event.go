package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resort/shared/timezone"
)

const (
	TypeReservationCreated       = "reservation.created"
	TypeReservationUpdated       = "reservation.updated"
	TypeReservationStatusChanged = "reservation.status_changed"
	TypeNewsletterSubscribed     = "newsletter.subscribed"
	TypeNewsletterUnsubscribed   = "newsletter.unsubscribed"
)

// Message is the envelope written to the broker. Payload holds the JSON encoded event body.
type Message struct {
	Key        string          `json:"key"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type Handler func(ctx context.Context, message Message) error

type Publisher interface {
	Publish(ctx context.Context, topic string, messages ...Message) error
}

type Subscriber interface {
	// Subscribe blocks until ctx is cancelled. A handler error drops the message after logging it.
	Subscribe(ctx context.Context, group, topic string, handler Handler) error
}

type Broker interface {
	Publisher
	Subscriber
	Close() error
}

func NewMessage(key, eventType string, payload any) (Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return Message{
		Key:        key,
		Type:       eventType,
		OccurredAt: timezone.Now(),
		Payload:    body,
	}, nil
}

func (m Message) Encode() ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	return body, nil
}

func DecodeMessage(body []byte) (Message, error) {
	var message Message

	if err := json.Unmarshal(body, &message); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}

	return message, nil
}

// DecodePayload unmarshals the message payload into T.
func DecodePayload[T any](message Message) (T, error) {
	var payload T

	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode %s payload: %w", message.Type, err)
	}

	return payload, nil
}
