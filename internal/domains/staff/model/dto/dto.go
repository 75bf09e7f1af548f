package dto

import (
	"mime/multipart"

	"resort/internal/domains/staff/model"
	"resort/shared"
	gDto "resort/shared/dto"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
)

type CreateMemberRequest struct {
	Name         string                `json:"name"          validate:"required,max=100"`
	Position     string                `json:"position"      validate:"required,max=100"`
	Department   string                `json:"department"    validate:"omitempty,oneof=front_office housekeeping food_beverage spa recreation management engineering"`
	Bio          string                `json:"bio"           validate:"omitempty,max=2000"`
	DisplayOrder int                   `json:"display_order" validate:"omitempty,min=0"`
	Photo        *multipart.FileHeader `json:"photo"         swaggerignore:"true" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	PhotoFile    multipart.File        `json:"-"`
	Active       *bool                 `json:"active"`
}

func (c *CreateMemberRequest) ToModel(user string, photoURL string) model.Member {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Member{
		ID:           uuid.NewString(),
		Name:         c.Name,
		Position:     c.Position,
		Department:   c.Department,
		Bio:          c.Bio,
		Photo:        photoURL,
		DisplayOrder: c.DisplayOrder,
		Active:       active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateMemberRequest struct {
	Name         string                `db:"name"          json:"name"          validate:"omitempty,max=100"`
	Position     string                `db:"position"      json:"position"      validate:"omitempty,max=100"`
	Department   string                `db:"department"    json:"department"    validate:"omitempty,oneof=front_office housekeeping food_beverage spa recreation management engineering"`
	Bio          string                `db:"bio"           json:"bio"           validate:"omitempty,max=2000"`
	DisplayOrder *int                  `db:"display_order" json:"display_order" validate:"omitempty,min=0"`
	Photo        *multipart.FileHeader `json:"photo"         swaggerignore:"true" validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	PhotoFile    multipart.File        `json:"-"`
	Active       *bool                 `db:"active"        json:"active"`
}

type MemberResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Department   string `json:"department"`
	Bio          string `json:"bio"`
	Photo        string `json:"photo"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
	gDto.Metadata
}

func (r *MemberResponse) FromModel(model model.Member) {
	r.ID = model.ID
	r.Name = model.Name
	r.Position = model.Position
	r.Department = model.Department
	r.Bio = model.Bio
	r.Photo = model.Photo
	r.DisplayOrder = model.DisplayOrder
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetMembersResponse struct {
	Members   []MemberResponse `json:"members"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetMembersResponse) FromModels(models []model.Member, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Members = make([]MemberResponse, len(models))
	for i, mod := range models {
		r.Members[i].FromModel(mod)
	}
}

type MemberFilter struct {
	Department string `json:"department" validate:"omitempty,oneof=front_office housekeeping food_beverage spa recreation management engineering"`
	Active     *bool  `json:"active"`
}

func (f MemberFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Department != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldDepartment,
			Operator: gDto.FilterOperatorEq,
			Value:    f.Department,
			Table:    model.TableName,
		})
	}

	if f.Active != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *f.Active,
			Table:    model.TableName,
		})
	}

	return group
}

// RosterParams orders the public listing by display order unless the caller asked otherwise.
func RosterParams() gDto.QueryParams {
	return gDto.QueryParams{
		SortBy:  model.FieldDisplayOrder,
		SortDir: gDto.SortDirAsc,
	}
}
