package model

import "resort/shared/model"

const (
	TableName  = "staff_members"
	EntityName = "staff"

	FieldID           = "id"
	FieldName         = "name"
	FieldPosition     = "position"
	FieldDepartment   = "department"
	FieldPhoto        = "photo"
	FieldDisplayOrder = "display_order"
	FieldActive       = "active"
)

// Member is a person shown on the public staff page. It is not a login account.
type Member struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Position     string `db:"position"`
	Department   string `db:"department"`
	Bio          string `db:"bio"`
	Photo        string `db:"photo"`
	DisplayOrder int    `db:"display_order"`
	Active       bool   `db:"active"`
	model.Metadata
}
