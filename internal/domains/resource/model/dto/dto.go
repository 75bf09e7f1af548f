package dto

import (
	"errors"
	"mime/multipart"

	"resort/config"
	"resort/internal/domains/resource/model"
	"resort/shared"
	gDto "resort/shared/dto"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
)

const defaultIncrementMinutes = 60

var errCapacityBounds = errors.New("min capacity must not exceed max capacity")

// CapacityRequest holds optional occupancy bounds.
type CapacityRequest struct {
	Min *int `json:"min" validate:"omitempty,min=0"`
	Max *int `json:"max" validate:"omitempty,min=1"`
}

func (c CapacityRequest) Validate(_ *config.Config) error {
	if !model.ValidCapacity(c.Min, c.Max) {
		return errCapacityBounds
	}

	return nil
}

type CreateResourceRequest struct {
	Name                    string           `json:"name"                      validate:"required,max=100"`
	Category                string           `json:"category"                  validate:"required,oneof=room hall table"`
	Description             string           `json:"description"               validate:"omitempty,max=2000"`
	Location                string           `json:"location"                  validate:"omitempty,max=100"`
	Capacity                *CapacityRequest `json:"capacity"                  validate:"omitempty,resort"`
	BillingUnit             string           `json:"billing_unit"              validate:"omitempty,oneof=night hour"`
	BillingIncrementMinutes int              `json:"billing_increment_minutes" validate:"omitempty,min=1,max=1440"`
	Rate                    int64            `json:"rate"                      validate:"min=0"`
	Currency                string           `json:"currency"                  validate:"omitempty,iso4217"`
	Active                  *bool            `json:"active"`
}

func (c *CreateResourceRequest) ToModel(user string, cfg *config.Config) model.Resource {
	category := model.Category(c.Category)

	unit := model.BillingUnit(c.BillingUnit)
	if unit == "" {
		unit = category.DefaultBillingUnit()
	}

	increment := c.BillingIncrementMinutes
	if increment == 0 {
		increment = defaultIncrementMinutes
		if cfg != nil && cfg.Reservation.DefaultIncrementMinute > 0 {
			increment = cfg.Reservation.DefaultIncrementMinute
		}
	}

	currency := c.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	resource := model.Resource{
		ID:                      uuid.NewString(),
		Name:                    c.Name,
		Category:                category,
		Description:             c.Description,
		Location:                c.Location,
		BillingUnit:             unit,
		BillingIncrementMinutes: increment,
		Rate:                    c.Rate,
		Currency:                currency,
		Active:                  active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if c.Capacity != nil {
		resource.MinCapacity = c.Capacity.Min
		resource.MaxCapacity = c.Capacity.Max
	}

	return resource
}

type UpdateResourceRequest struct {
	Name                    string           `db:"name"                      json:"name"                      validate:"omitempty,max=100"`
	Category                string           `db:"category"                  json:"category"                  validate:"omitempty,oneof=room hall table"`
	Description             string           `db:"description"               json:"description"               validate:"omitempty,max=2000"`
	Location                string           `db:"location"                  json:"location"                  validate:"omitempty,max=100"`
	Capacity                *CapacityRequest `db:"-"                         json:"capacity"                  validate:"omitempty,resort"`
	BillingUnit             string           `db:"billing_unit"              json:"billing_unit"              validate:"omitempty,oneof=night hour"`
	BillingIncrementMinutes *int             `db:"billing_increment_minutes" json:"billing_increment_minutes" validate:"omitempty,min=1,max=1440"`
	Rate                    *int64           `db:"rate"                      json:"rate"                      validate:"omitempty,min=0"`
	Currency                string           `db:"currency"                  json:"currency"                  validate:"omitempty,iso4217"`
	Active                  *bool            `db:"active"                    json:"active"`
}

type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile multipart.File        `json:"-"`
}

type CapacityResponse struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

type ResourceResponse struct {
	ID                      string           `json:"id"`
	Name                    string           `json:"name"`
	Category                string           `json:"category"`
	Description             string           `json:"description"`
	Location                string           `json:"location"`
	Capacity                CapacityResponse `json:"capacity"`
	BillingUnit             string           `json:"billing_unit"`
	BillingIncrementMinutes int              `json:"billing_increment_minutes"`
	Rate                    int64            `json:"rate"`
	Currency                string           `json:"currency"`
	Image                   string           `json:"image"`
	Active                  bool             `json:"active"`
	gDto.Metadata
}

func (r *ResourceResponse) FromModel(model model.Resource) {
	r.ID = model.ID
	r.Name = model.Name
	r.Category = string(model.Category)
	r.Description = model.Description
	r.Location = model.Location
	r.Capacity = CapacityResponse{Min: model.MinCapacity, Max: model.MaxCapacity}
	r.BillingUnit = string(model.BillingUnit)
	r.BillingIncrementMinutes = model.BillingIncrementMinutes
	r.Rate = model.Rate
	r.Currency = model.Currency
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetResourcesResponse struct {
	Resources []ResourceResponse `json:"resources"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetResourcesResponse) FromModels(models []model.Resource, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Resources = make([]ResourceResponse, len(models))
	for i, mod := range models {
		r.Resources[i].FromModel(mod)
	}
}

// ResourceFilter carries the list query parameters.
type ResourceFilter struct {
	Name     string `json:"name"     validate:"omitempty,max=100"`
	Category string `json:"category" validate:"omitempty,oneof=room hall table"`
	Location string `json:"location" validate:"omitempty,max=100"`
	Active   *bool  `json:"active"`
}

func (f ResourceFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Name != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    f.Name,
			Table:    model.TableName,
		})
	}

	if f.Category != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Operator: gDto.FilterOperatorEq,
			Value:    f.Category,
			Table:    model.TableName,
		})
	}

	if f.Location != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldLocation,
			Operator: gDto.FilterOperatorLike,
			Value:    f.Location,
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
