package timezone

import (
	"errors"
	"fmt"
	"time"

	"resort/config"
	"resort/shared/constant"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location

	// ISO8601Layouts are the accepted date and date-time layouts, tried in order.
	ISO8601Layouts = []string{
		time.RFC3339,
		constant.DateTimeMinutes,
		constant.DateOnlyFormat,
	}

	ErrInvalidISO8601 = errors.New("value is not an ISO-8601 date or date-time")
)

func init() {
	cfg := config.Get()

	if err := SetLocation(cfg.App.Timezone); err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Jakarta', 'UTC', 'America/New_York'")
	}
}

// SetLocation loads an IANA timezone name. An empty name selects UTC; an unknown name selects UTC
// and returns the load error.
func SetLocation(name string) error {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		appLocation = time.UTC

		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		appLocation = time.UTC

		return fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	appLocation = loc

	log.Info().Str("timezone", name).Msg("Application timezone initialized")

	return nil
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, GetLocation())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time: %w", err)
	}

	return t, nil
}

// ParseISO8601 accepts a date (midnight in the application timezone), a date-time without seconds
// or an RFC 3339 timestamp. Values carrying an explicit offset keep that offset.
func ParseISO8601(value string) (time.Time, error) {
	for _, layout := range ISO8601Layouts {
		if t, err := time.ParseInLocation(layout, value, GetLocation()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidISO8601, value)
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
