package model

import (
	"resort/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "menu_items"
	EntityName = "menu_item"

	FieldID        = "id"
	FieldName      = "name"
	FieldCourse    = "course"
	FieldAvailable = "available"
)

type MenuItem struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Course      string         `db:"course"`
	Price       int64          `db:"price"`
	Currency    string         `db:"currency"`
	DietaryTags pq.StringArray `db:"dietary_tags"`
	Available   bool           `db:"available"`
	model.Metadata
}
