package model

import (
	"errors"
	"fmt"
	"time"

	"resort/shared/timezone"
)

var (
	ErrInvalidStart = errors.New("start must be an ISO-8601 date or date-time")
	ErrInvalidEnd   = errors.New("end must be an ISO-8601 date or date-time")
	ErrEmptyRange   = errors.New("end must be after start")
)

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseRange reads two ISO-8601 values in the application timezone. A date-only end is
// the departure date and is excluded from the range.
func ParseRange(start, end string) (Range, error) {
	startAt, err := timezone.ParseISO8601(start)
	if err != nil {
		return Range{}, ErrInvalidStart
	}

	endAt, err := timezone.ParseISO8601(end)
	if err != nil {
		return Range{}, ErrInvalidEnd
	}

	r := Range{Start: startAt, End: endAt}
	if !r.Valid() {
		return r, ErrEmptyRange
	}

	return r, nil
}

func (r Range) Valid() bool {
	return r.Start.Before(r.End)
}

// Overlaps reports whether both ranges share an instant. Back-to-back ranges do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}
