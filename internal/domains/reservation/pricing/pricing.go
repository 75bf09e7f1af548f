// Package pricing turns a resource tariff and a reservation range into a total price.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"resort/internal/domains/reservation/model"
)

type Unit string

const (
	UnitNight Unit = "night"
	UnitHour  Unit = "hour"
)

const (
	DefaultIncrementMinutes = 60
	minutesPerHour          = 60
	hoursPerNight           = 24
)

var (
	ErrNegativeRate = errors.New("rate must not be negative")
	ErrInvalidRange = errors.New("range must have a positive duration")
	ErrUnknownUnit  = errors.New("unknown billing unit")
)

// Tariff is the billing part of a resource. Rate is in minor currency units per Unit.
type Tariff struct {
	Unit             Unit
	Rate             int64
	IncrementMinutes int
	Currency         string
}

// Quote is the computed price. Units counts nights or billed minutes depending on the tariff.
type Quote struct {
	Units    int64
	Total    int64
	Currency string
}

// Calculate prices r under tariff. A zero rate is valid and yields a zero total.
func Calculate(tariff Tariff, r model.Range) (Quote, error) {
	if tariff.Rate < 0 {
		return Quote{}, ErrNegativeRate
	}

	if !r.Valid() {
		return Quote{}, ErrInvalidRange
	}

	switch tariff.Unit {
	case UnitNight:
		nights := Nights(r)

		return Quote{Units: nights, Total: tariff.Rate * nights, Currency: tariff.Currency}, nil
	case UnitHour:
		minutes := BilledMinutes(r, tariff.IncrementMinutes)

		return Quote{
			Units:    minutes,
			Total:    ceilDiv(tariff.Rate*minutes, minutesPerHour),
			Currency: tariff.Currency,
		}, nil
	default:
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownUnit, tariff.Unit)
	}
}

// Nights counts started 24 hour periods on the wall clock of the range start, with a floor of one.
// Wall-clock arithmetic keeps a daylight saving change from adding or removing a night.
func Nights(r model.Range) int64 {
	elapsed := wallClock(r.End.In(r.Start.Location())).Sub(wallClock(r.Start))
	nights := ceilDiv(int64(elapsed), int64(hoursPerNight*time.Hour))

	return max(nights, 1)
}

// BilledMinutes rounds the duration up to whole increments. Non-positive increments use one hour.
func BilledMinutes(r model.Range, incrementMinutes int) int64 {
	if incrementMinutes <= 0 {
		incrementMinutes = DefaultIncrementMinutes
	}

	increment := int64(time.Duration(incrementMinutes) * time.Minute)
	steps := ceilDiv(int64(r.Duration()), increment)

	return steps * int64(incrementMinutes)
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}

	return (a + b - 1) / b
}
