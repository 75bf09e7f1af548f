package dto

import (
	"resort/internal/domains/reservation/model"
	"resort/shared"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ResourceID      string `json:"resource_id"      validate:"required,uuid"`
	Start           string `json:"start"            validate:"required,iso8601"`
	End             string `json:"end"              validate:"required,iso8601"`
	GuestName       string `json:"guest_name"       validate:"required,max=100"`
	GuestEmail      string `json:"guest_email"      validate:"required,email,max=254"`
	GuestPhone      string `json:"guest_phone"      validate:"omitempty,max=30"`
	GuestCount      int    `json:"guest_count"      validate:"omitempty,min=1,max=1000"`
	Title           string `json:"title"            validate:"omitempty,max=150"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=1000"`
}

// ToModel builds the reservation row. Pricing and status are decided by the caller.
func (c *CreateReservationRequest) ToModel(user string, period model.Range, status model.Status, total int64, currency string) model.Reservation {
	return model.Reservation{
		ID:              uuid.NewString(),
		ResourceID:      c.ResourceID,
		StartAt:         period.Start,
		EndAt:           period.End,
		Status:          status,
		GuestName:       c.GuestName,
		GuestEmail:      c.GuestEmail,
		GuestPhone:      c.GuestPhone,
		GuestCount:      c.GuestCount,
		Title:           c.Title,
		SpecialRequests: c.SpecialRequests,
		TotalPrice:      total,
		Currency:        currency,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateReservationRequest changes contact details and optionally moves the reservation.
// Start and End must be sent together.
type UpdateReservationRequest struct {
	Start           string `db:"-"                json:"start"            validate:"required_with=End,omitempty,iso8601"`
	End             string `db:"-"                json:"end"              validate:"required_with=Start,omitempty,iso8601"`
	GuestName       string `db:"guest_name"       json:"guest_name"       validate:"omitempty,max=100"`
	GuestEmail      string `db:"guest_email"      json:"guest_email"      validate:"omitempty,email,max=254"`
	GuestPhone      string `db:"guest_phone"      json:"guest_phone"      validate:"omitempty,max=30"`
	GuestCount      *int   `db:"guest_count"      json:"guest_count"      validate:"omitempty,min=1,max=1000"`
	Title           string `db:"title"            json:"title"            validate:"omitempty,max=150"`
	SpecialRequests string `db:"special_requests" json:"special_requests" validate:"omitempty,max=1000"`
}

func (u *UpdateReservationRequest) Reschedules() bool {
	return u.Start != constant.Empty && u.End != constant.Empty
}

type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type AvailabilityRequest struct {
	Start string `json:"start" validate:"required,iso8601"`
	End   string `json:"end"   validate:"required,iso8601"`
}

type BusyRange struct {
	ReservationID string `json:"reservation_id"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Status        string `json:"status"`
}

type AvailabilityResponse struct {
	ResourceID string      `json:"resource_id"`
	Start      string      `json:"start"`
	End        string      `json:"end"`
	Available  bool        `json:"available"`
	Conflicts  []BusyRange `json:"conflicts"`
}

func (a *AvailabilityResponse) FromModels(resourceID string, period model.Range, conflicts []model.Reservation) {
	a.ResourceID = resourceID
	a.Start = timezone.Format(period.Start, constant.DateFormat)
	a.End = timezone.Format(period.End, constant.DateFormat)
	a.Available = len(conflicts) == 0

	a.Conflicts = make([]BusyRange, len(conflicts))
	for i, conflict := range conflicts {
		a.Conflicts[i] = BusyRange{
			ReservationID: conflict.ID,
			Start:         timezone.Format(conflict.StartAt, constant.DateFormat),
			End:           timezone.Format(conflict.EndAt, constant.DateFormat),
			Status:        conflict.Status.String(),
		}
	}
}

type ReservationResponse struct {
	ID                 string `json:"id"`
	ResourceID         string `json:"resource_id"`
	ResourceName       string `json:"resource_name,omitempty"`
	ResourceCategory   string `json:"resource_category,omitempty"`
	Start              string `json:"start"`
	End                string `json:"end"`
	Status             string `json:"status"`
	GuestName          string `json:"guest_name"`
	GuestEmail         string `json:"guest_email"`
	GuestPhone         string `json:"guest_phone,omitempty"`
	GuestCount         int    `json:"guest_count,omitempty"`
	Title              string `json:"title,omitempty"`
	SpecialRequests    string `json:"special_requests,omitempty"`
	TotalPrice         int64  `json:"total_price"`
	Currency           string `json:"currency"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.ResourceID = model.ResourceID
	r.ResourceName = model.ResourceName
	r.ResourceCategory = model.ResourceCategory
	r.Start = timezone.Format(model.StartAt, constant.DateFormat)
	r.End = timezone.Format(model.EndAt, constant.DateFormat)
	r.Status = model.Status.String()
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.GuestCount = model.GuestCount
	r.Title = model.Title
	r.SpecialRequests = model.SpecialRequests
	r.TotalPrice = model.TotalPrice
	r.Currency = model.Currency
	r.CancellationReason = model.CancellationReason
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

// ReservationFilter carries the list query parameters. From and To select reservations that
// intersect the window [From, To).
type ReservationFilter struct {
	ResourceID string `json:"resource_id" validate:"omitempty,uuid"`
	Status     string `json:"status"      validate:"omitempty,oneof=pending confirmed in_progress completed cancelled no_show"`
	From       string `json:"from"        validate:"omitempty,iso8601"`
	To         string `json:"to"          validate:"omitempty,iso8601"`
	GuestEmail string `json:"guest_email" validate:"omitempty,max=254"`
	CreatedBy  string `json:"-"`
}

func (f ReservationFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	eq := func(field string, value any) {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	if f.ResourceID != constant.Empty {
		eq(model.FieldResourceID, f.ResourceID)
	}

	if f.Status != constant.Empty {
		eq(model.FieldStatus, f.Status)
	}

	if f.GuestEmail != constant.Empty {
		eq(model.FieldGuestEmail, f.GuestEmail)
	}

	if f.CreatedBy != constant.Empty {
		eq(constant.FieldCreatedBy, f.CreatedBy)
	}

	if to, err := timezone.ParseISO8601(f.To); err == nil {
		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  "window_end",
			Field:    model.FieldStartAt,
			Operator: gDto.FilterOperatorLess,
			Value:    to,
			Table:    model.TableName,
		})
	}

	if from, err := timezone.ParseISO8601(f.From); err == nil {
		group.Filters = append(group.Filters, gDto.Filter{
			ArgName:  "window_start",
			Field:    model.FieldEndAt,
			Operator: gDto.FilterOperatorGreater,
			Value:    from,
			Table:    model.TableName,
		})
	}

	return group
}
