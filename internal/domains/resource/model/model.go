package model

import "resort/shared/model"

const (
	TableName  = "resources"
	EntityName = "resource"

	FieldID                      = "id"
	FieldName                    = "name"
	FieldCategory                = "category"
	FieldDescription             = "description"
	FieldLocation                = "location"
	FieldMinCapacity             = "min_capacity"
	FieldMaxCapacity             = "max_capacity"
	FieldBillingUnit             = "billing_unit"
	FieldBillingIncrementMinutes = "billing_increment_minutes"
	FieldRate                    = "rate"
	FieldCurrency                = "currency"
	FieldImage                   = "image"
	FieldActive                  = "active"
)

type Category string

const (
	CategoryRoom  Category = "room"
	CategoryHall  Category = "hall"
	CategoryTable Category = "table"
)

type BillingUnit string

const (
	BillingUnitNight BillingUnit = "night"
	BillingUnitHour  BillingUnit = "hour"
)

const DefaultCurrency = "USD"

// DefaultBillingUnit returns night for rooms and hour for halls and tables.
func (c Category) DefaultBillingUnit() BillingUnit {
	if c == CategoryRoom {
		return BillingUnitNight
	}

	return BillingUnitHour
}

// Resource is a bookable room, event hall or restaurant table.
// Rate is kept in minor currency units.
type Resource struct {
	ID                      string      `db:"id"`
	Name                    string      `db:"name"`
	Category                Category    `db:"category"`
	Description             string      `db:"description"`
	Location                string      `db:"location"`
	MinCapacity             *int        `db:"min_capacity"`
	MaxCapacity             *int        `db:"max_capacity"`
	BillingUnit             BillingUnit `db:"billing_unit"`
	BillingIncrementMinutes int         `db:"billing_increment_minutes"`
	Rate                    int64       `db:"rate"`
	Currency                string      `db:"currency"`
	Image                   string      `db:"image"`
	Active                  bool        `db:"active"`
	model.Metadata
}

// AcceptsGuests reports whether count fits the capacity bounds. Unset bounds are open.
func (r Resource) AcceptsGuests(count int) bool {
	if r.MinCapacity != nil && count < *r.MinCapacity {
		return false
	}

	if r.MaxCapacity != nil && count > *r.MaxCapacity {
		return false
	}

	return true
}

// ValidCapacity reports whether the capacity bounds satisfy min <= max when both are set.
func ValidCapacity(minCapacity, maxCapacity *int) bool {
	if minCapacity == nil || maxCapacity == nil {
		return true
	}

	return *minCapacity <= *maxCapacity
}
