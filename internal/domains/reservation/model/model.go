package model

import (
	"time"

	"resort/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID                 = "id"
	FieldResourceID         = "resource_id"
	FieldStartAt            = "start_at"
	FieldEndAt              = "end_at"
	FieldStatus             = "status"
	FieldGuestName          = "guest_name"
	FieldGuestEmail         = "guest_email"
	FieldGuestPhone         = "guest_phone"
	FieldGuestCount         = "guest_count"
	FieldTitle              = "title"
	FieldSpecialRequests    = "special_requests"
	FieldTotalPrice         = "total_price"
	FieldCurrency           = "currency"
	FieldCancellationReason = "cancellation_reason"
)

// Reservation is a booking, hall event or table reservation against one resource.
// TotalPrice is kept in minor currency units.
type Reservation struct {
	ID                 string    `db:"id"`
	ResourceID         string    `db:"resource_id"`
	ResourceName       string    `column:"name"            db:"resource_name" table:"resources"`
	ResourceCategory   string    `column:"category"        db:"resource_category" table:"resources"`
	StartAt            time.Time `db:"start_at"`
	EndAt              time.Time `db:"end_at"`
	Status             Status    `db:"status"`
	GuestName          string    `db:"guest_name"`
	GuestEmail         string    `db:"guest_email"`
	GuestPhone         string    `db:"guest_phone"`
	GuestCount         int       `db:"guest_count"`
	Title              string    `db:"title"`
	SpecialRequests    string    `db:"special_requests"`
	TotalPrice         int64     `db:"total_price"`
	Currency           string    `db:"currency"`
	CancellationReason string    `db:"cancellation_reason"`
	model.Metadata
}

func (Reservation) GetJoinQuery() string {
	return "LEFT JOIN resources ON resources.id = reservations.resource_id"
}

func (r Reservation) Range() Range {
	return Range{Start: r.StartAt, End: r.EndAt}
}

// OverlapQuery selects reservations of one resource that intersect Range in a Blocking status.
type OverlapQuery struct {
	ResourceID string
	Range      Range
	Blocking   StatusSet
	// ExcludeID skips the reservation being rescheduled.
	ExcludeID string
	// ForUpdate locks the returned rows when the query runs inside a transaction.
	ForUpdate bool
}
