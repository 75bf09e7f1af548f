package event

import "time"

type ReservationPayload struct {
	ReservationID  string    `json:"reservation_id"`
	ResourceID     string    `json:"resource_id"`
	ResourceName   string    `json:"resource_name,omitempty"`
	UserID         string    `json:"user_id"`
	GuestName      string    `json:"guest_name"`
	GuestEmail     string    `json:"guest_email"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	TotalPrice     int64     `json:"total_price"`
	Currency       string    `json:"currency"`
	Reason         string    `json:"reason,omitempty"`
}

// NewsletterPayload carries the unsubscribe token so the external mailer can build the opt-out link.
type NewsletterPayload struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Token string `json:"token,omitempty"`
}
