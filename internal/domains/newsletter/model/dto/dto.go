package dto

import (
	"strings"
	"time"

	"resort/internal/domains/newsletter/model"
	"resort/shared"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
)

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name"  validate:"omitempty,max=100"`
}

// NormalizedEmail is the form stored and matched on; addresses differing only in case are one subscriber.
func (r SubscribeRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

func (r SubscribeRequest) ToModel() model.Subscriber {
	now := timezone.Now()

	return model.Subscriber{
		ID:           uuid.NewString(),
		Email:        r.NormalizedEmail(),
		Name:         r.Name,
		Token:        uuid.NewString(),
		Subscribed:   true,
		SubscribedAt: now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  constant.ContextGuest,
			ModifiedBy: constant.ContextGuest,
		},
	}
}

type UnsubscribeRequest struct {
	Token string `json:"token" validate:"required,uuid"`
}

// SubscribeResponse never exposes the unsubscribe token; it travels only inside delivered mail.
type SubscribeResponse struct {
	Email      string    `json:"email"`
	Subscribed bool      `json:"subscribed"`
	Since      time.Time `json:"since"`
}

func (r *SubscribeResponse) FromModel(model model.Subscriber) {
	r.Email = model.Email
	r.Subscribed = model.Subscribed
	r.Since = model.SubscribedAt
}

type SubscriberResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Subscribed     bool       `json:"subscribed"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
}

func (r *SubscriberResponse) FromModel(model model.Subscriber) {
	r.ID = model.ID
	r.Email = model.Email
	r.Name = model.Name
	r.Subscribed = model.Subscribed
	r.SubscribedAt = model.SubscribedAt
	r.UnsubscribedAt = model.UnsubscribedAt
}

type GetSubscribersResponse struct {
	Subscribers []SubscriberResponse `json:"subscribers"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetSubscribersResponse) FromModels(models []model.Subscriber, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Subscribers = make([]SubscriberResponse, len(models))
	for i, mod := range models {
		r.Subscribers[i].FromModel(mod)
	}
}

type SubscriberFilter struct {
	Email      string `json:"email"      validate:"omitempty,max=255"`
	Subscribed *bool  `json:"subscribed"`
}

func (f SubscriberFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Email != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldEmail,
			Operator: gDto.FilterOperatorLike,
			Value:    f.Email,
			Table:    model.TableName,
		})
	}

	if f.Subscribed != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldSubscribed,
			Operator: gDto.FilterOperatorEq,
			Value:    *f.Subscribed,
			Table:    model.TableName,
		})
	}

	return group
}

func FieldFilter(field string, value any) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			},
		},
	}
}
