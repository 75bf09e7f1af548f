package model

import (
	"fmt"

	"resort/shared/event"
)

const dateLayout = "02 Jan 2006 15:04"

// Compose renders the inbox title and message for a reservation event.
// ok is false for events that do not notify the guest.
func Compose(eventType string, p event.ReservationPayload) (title, message string, ok bool) {
	resource := p.ResourceName
	if resource == "" {
		resource = p.ResourceID
	}

	when := fmt.Sprintf("%s to %s", p.StartAt.Format(dateLayout), p.EndAt.Format(dateLayout))

	switch eventType {
	case event.TypeReservationCreated:
		if p.Status == "confirmed" {
			return "Reservation confirmed", fmt.Sprintf("Your reservation of %s from %s is confirmed.", resource, when), true
		}

		return "Reservation received", fmt.Sprintf("We received your request for %s from %s. It is awaiting confirmation.", resource, when), true
	case event.TypeReservationUpdated:
		return "Reservation updated", fmt.Sprintf("Your reservation of %s now runs from %s.", resource, when), true
	case event.TypeReservationStatusChanged:
		switch p.Status {
		case "confirmed":
			return "Reservation confirmed", fmt.Sprintf("Your reservation of %s from %s is confirmed.", resource, when), true
		case "cancelled":
			msg := fmt.Sprintf("Your reservation of %s from %s was cancelled.", resource, when)
			if p.Reason != "" {
				msg += " Reason: " + p.Reason
			}

			return "Reservation cancelled", msg, true
		case "in_progress":
			return "Welcome", fmt.Sprintf("You are checked in to %s. Enjoy your stay.", resource), true
		case "completed":
			return "Thank you", fmt.Sprintf("Your stay in %s is complete. We hope to see you again.", resource), true
		case "no_show":
			return "Reservation missed", fmt.Sprintf("Your reservation of %s from %s was marked as a no-show.", resource, when), true
		}
	}

	return "", "", false
}
