package dto

import (
	"resort/internal/domains/restaurant/model"
	"resort/shared"
	gDto "resort/shared/dto"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateMenuItemRequest struct {
	Name        string   `json:"name"         validate:"required,max=100"`
	Description string   `json:"description"  validate:"omitempty,max=500"`
	Course      string   `json:"course"       validate:"required,oneof=starter main dessert beverage side"`
	Price       int64    `json:"price"        validate:"min=0"`
	Currency    string   `json:"currency"     validate:"omitempty,iso4217"`
	DietaryTags []string `json:"dietary_tags" validate:"omitempty,max=10,dive,oneof=vegetarian vegan gluten_free dairy_free halal nut_free spicy"`
}

func (c *CreateMenuItemRequest) ToModel(user string) model.MenuItem {
	currency := c.Currency
	if currency == "" {
		currency = "USD"
	}

	tags := c.DietaryTags
	if tags == nil {
		tags = []string{}
	}

	return model.MenuItem{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Description: c.Description,
		Course:      c.Course,
		Price:       c.Price,
		Currency:    currency,
		DietaryTags: tags,
		Available:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateMenuItemRequest struct {
	Name        string         `db:"name"         json:"name"         validate:"omitempty,max=100"`
	Description string         `db:"description"  json:"description"  validate:"omitempty,max=500"`
	Course      string         `db:"course"       json:"course"       validate:"omitempty,oneof=starter main dessert beverage side"`
	Price       *int64         `db:"price"        json:"price"        validate:"omitempty,min=0"`
	Currency    string         `db:"currency"     json:"currency"     validate:"omitempty,iso4217"`
	DietaryTags pq.StringArray `db:"dietary_tags" json:"dietary_tags" validate:"omitempty,max=10,dive,oneof=vegetarian vegan gluten_free dairy_free halal nut_free spicy"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type MenuItemResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Course      string   `json:"course"`
	Price       int64    `json:"price"`
	Currency    string   `json:"currency"`
	DietaryTags []string `json:"dietary_tags"`
	Available   bool     `json:"available"`
	gDto.Metadata
}

func (r *MenuItemResponse) FromModel(model model.MenuItem) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Course = model.Course
	r.Price = model.Price
	r.Currency = model.Currency
	r.DietaryTags = append([]string{}, model.DietaryTags...)
	r.Available = model.Available
	r.Metadata.FromModel(model.Metadata)
}

type GetMenuItemsResponse struct {
	MenuItems []MenuItemResponse `json:"menu_items"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetMenuItemsResponse) FromModels(models []model.MenuItem, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.MenuItems = make([]MenuItemResponse, len(models))
	for i, mod := range models {
		r.MenuItems[i].FromModel(mod)
	}
}

type MenuItemFilter struct {
	Course    string `json:"course"    validate:"omitempty,oneof=starter main dessert beverage side"`
	Available *bool  `json:"available"`
}

func (f MenuItemFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Course != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldCourse, Operator: gDto.FilterOperatorEq, Value: f.Course, Table: model.TableName,
		})
	}

	if f.Available != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldAvailable, Operator: gDto.FilterOperatorEq, Value: *f.Available, Table: model.TableName,
		})
	}

	return group
}
