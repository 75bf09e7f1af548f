package model

import (
	"resort/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "activities"
	EntityName = "activity"

	FieldID       = "id"
	FieldName     = "name"
	FieldCategory = "category"
	FieldLocation = "location"
	FieldImages   = "images"
	FieldActive   = "active"
)

// MaxImages caps the gallery of a single activity.
const MaxImages = 10

// Activity is something guests can join during a stay: a dive trip, a spa session, a cooking class.
// Price is kept in minor currency units and is charged per person.
type Activity struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Category        string         `db:"category"`
	Description     string         `db:"description"`
	Location        string         `db:"location"`
	Schedule        string         `db:"schedule"`
	DurationMinutes int            `db:"duration_minutes"`
	Price           int64          `db:"price"`
	Currency        string         `db:"currency"`
	Images          pq.StringArray `db:"images"`
	Active          bool           `db:"active"`
	model.Metadata
}

// WithoutImages returns the images not listed in removed, preserving order.
func (a Activity) WithoutImages(removed []string) []string {
	drop := make(map[string]struct{}, len(removed))
	for _, url := range removed {
		drop[url] = struct{}{}
	}

	kept := make([]string, 0, len(a.Images))

	for _, url := range a.Images {
		if _, ok := drop[url]; !ok {
			kept = append(kept, url)
		}
	}

	return kept
}
