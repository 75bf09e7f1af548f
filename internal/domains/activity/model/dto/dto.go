package dto

import (
	"mime/multipart"

	"resort/internal/domains/activity/model"
	"resort/shared"
	gDto "resort/shared/dto"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
)

const defaultCurrency = "USD"

type CreateActivityRequest struct {
	Name            string `json:"name"             validate:"required,min=3,max=100"`
	Category        string `json:"category"         validate:"required,oneof=water_sport wellness excursion dining kids culture other"`
	Description     string `json:"description"      validate:"omitempty,max=2000"`
	Location        string `json:"location"         validate:"omitempty,max=100"`
	Schedule        string `json:"schedule"         validate:"omitempty,max=200"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=1,max=1440"`
	Price           int64  `json:"price"            validate:"min=0"`
	Currency        string `json:"currency"         validate:"omitempty,iso4217"`
	Active          *bool  `json:"active"`
}

func (c *CreateActivityRequest) ToModel(user string) model.Activity {
	currency := c.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Activity{
		ID:              uuid.NewString(),
		Name:            c.Name,
		Category:        c.Category,
		Description:     c.Description,
		Location:        c.Location,
		Schedule:        c.Schedule,
		DurationMinutes: c.DurationMinutes,
		Price:           c.Price,
		Currency:        currency,
		Images:          []string{},
		Active:          active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateActivityRequest struct {
	Name            string `db:"name"             json:"name"             validate:"omitempty,min=3,max=100"`
	Category        string `db:"category"         json:"category"         validate:"omitempty,oneof=water_sport wellness excursion dining kids culture other"`
	Description     string `db:"description"      json:"description"      validate:"omitempty,max=2000"`
	Location        string `db:"location"         json:"location"         validate:"omitempty,max=100"`
	Schedule        string `db:"schedule"         json:"schedule"         validate:"omitempty,max=200"`
	DurationMinutes *int   `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,min=1,max=1440"`
	Price           *int64 `db:"price"            json:"price"            validate:"omitempty,min=0"`
	Currency        string `db:"currency"         json:"currency"         validate:"omitempty,iso4217"`
	Active          *bool  `db:"active"           json:"active"`
}

type ActivityResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	Schedule        string   `json:"schedule"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           int64    `json:"price"`
	Currency        string   `json:"currency"`
	Images          []string `json:"images"`
	Active          bool     `json:"active"`
	gDto.Metadata
}

func (r *ActivityResponse) FromModel(model model.Activity) {
	r.ID = model.ID
	r.Name = model.Name
	r.Category = model.Category
	r.Description = model.Description
	r.Location = model.Location
	r.Schedule = model.Schedule
	r.DurationMinutes = model.DurationMinutes
	r.Price = model.Price
	r.Currency = model.Currency
	r.Images = append([]string{}, model.Images...)
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetActivitiesResponse) FromModels(models []model.Activity, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Activities = make([]ActivityResponse, len(models))
	for i, m := range models {
		r.Activities[i].FromModel(m)
	}
}

type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile multipart.File        `json:"-"`
}

type DeleteImagesRequest struct {
	ImageURLs []string `json:"image_urls" validate:"required,min=1,dive,url"`
}

type ActivityFilter struct {
	Name     string `json:"name"     validate:"omitempty,max=100"`
	Category string `json:"category" validate:"omitempty,oneof=water_sport wellness excursion dining kids culture other"`
	Active   *bool  `json:"active"`
}

func (f ActivityFilter) ToFilterGroup() gDto.FilterGroup {
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
