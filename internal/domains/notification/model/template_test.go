package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"resort/internal/domains/notification/model"
	"resort/shared/event"
)

func TestCompose(t *testing.T) {
	payload := event.ReservationPayload{
		ReservationID: "res-1",
		ResourceID:    "r-101",
		ResourceName:  "R101",
		StartAt:       time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		EndAt:         time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		eventType string
		status    string
		reason    string
		wantTitle string
		wantText  string
		wantOK    bool
	}{
		{"pending request", event.TypeReservationCreated, "pending", "", "Reservation received", "awaiting confirmation", true},
		{"created by staff", event.TypeReservationCreated, "confirmed", "", "Reservation confirmed", "R101", true},
		{"rescheduled", event.TypeReservationUpdated, "pending", "", "Reservation updated", "01 Jun 2025 14:00", true},
		{"cancelled with reason", event.TypeReservationStatusChanged, "cancelled", "overbooked", "Reservation cancelled", "Reason: overbooked", true},
		{"checked in", event.TypeReservationStatusChanged, "in_progress", "", "Welcome", "checked in", true},
		{"no show", event.TypeReservationStatusChanged, "no_show", "", "Reservation missed", "no-show", true},
		{"unknown status", event.TypeReservationStatusChanged, "pending", "", "", "", false},
		{"newsletter event", event.TypeNewsletterSubscribed, "", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := payload
			p.Status = tt.status
			p.Reason = tt.reason

			title, text, ok := model.Compose(tt.eventType, p)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTitle, title)
			assert.Contains(t, text, tt.wantText)
		})
	}
}

func TestCompose_FallsBackToResourceID(t *testing.T) {
	_, text, ok := model.Compose(event.TypeReservationCreated, event.ReservationPayload{ResourceID: "r-101", Status: "pending"})

	assert.True(t, ok)
	assert.Contains(t, text, "r-101")
}
