package model

import (
	"time"

	"resort/shared/model"
)

const (
	TableName  = "newsletter_subscribers"
	EntityName = "newsletter_subscriber"

	FieldID             = "id"
	FieldEmail          = "email"
	FieldName           = "name"
	FieldToken          = "unsubscribe_token"
	FieldSubscribed     = "subscribed"
	FieldSubscribedAt   = "subscribed_at"
	FieldUnsubscribedAt = "unsubscribed_at"
)

// Subscriber is a newsletter address. Unsubscribing keeps the row so the address can come back
// with the same token.
type Subscriber struct {
	ID             string     `db:"id"`
	Email          string     `db:"email"`
	Name           string     `db:"name"`
	Token          string     `db:"unsubscribe_token"`
	Subscribed     bool       `db:"subscribed"`
	SubscribedAt   time.Time  `db:"subscribed_at"`
	UnsubscribedAt *time.Time `db:"unsubscribed_at"`
	model.Metadata
}
