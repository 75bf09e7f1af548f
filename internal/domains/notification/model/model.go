package model

import (
	"time"

	"resort/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID            = "id"
	FieldUserID        = "user_id"
	FieldReservationID = "reservation_id"
	FieldType          = "type"
	FieldReadAt        = "read_at"
)

// Notification is one inbox entry. DedupKey is unique per delivered event so a redelivered
// broker message cannot create a second entry.
type Notification struct {
	ID            string     `db:"id"`
	UserID        string     `db:"user_id"`
	ReservationID *string    `db:"reservation_id"`
	Type          string     `db:"type"`
	Title         string     `db:"title"`
	Message       string     `db:"message"`
	DedupKey      string     `db:"dedup_key"`
	ReadAt        *time.Time `db:"read_at"`
	model.Metadata
}

func (n Notification) Read() bool {
	return n.ReadAt != nil
}
