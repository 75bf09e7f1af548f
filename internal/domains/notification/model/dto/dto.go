package dto

import (
	"time"

	"resort/internal/domains/notification/model"
	"resort/shared"
	gDto "resort/shared/dto"
)

type NotificationResponse struct {
	ID            string     `json:"id"`
	ReservationID *string    `json:"reservation_id,omitempty"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.ReservationID = model.ReservationID
	r.Type = model.Type
	r.Title = model.Title
	r.Message = model.Message
	r.Read = model.Read()
	r.ReadAt = model.ReadAt
	r.CreatedAt = model.CreatedAt
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, unread, limit int) {
	r.TotalData = totalData
	r.Unread = unread
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}

type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

// InboxFilter selects the notifications of one user, optionally only the unread ones.
func InboxFilter(userID string, unreadOnly bool) gDto.FilterGroup {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}

	if unreadOnly {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldReadAt,
			Operator: gDto.FilterIsNull,
			Table:    model.TableName,
		})
	}

	return group
}

// OwnedFilter matches one notification only when it belongs to userID.
func OwnedFilter(id, userID string) gDto.FilterGroup {
	group := InboxFilter(userID, false)
	group.Filters = append(group.Filters, gDto.Filter{
		Field:    model.FieldID,
		Operator: gDto.FilterOperatorEq,
		Value:    id,
		Table:    model.TableName,
	})

	return group
}
