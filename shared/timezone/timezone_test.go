package timezone_test

import (
	"testing"
	"time"

	"resort/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useLocation(t *testing.T, name string) {
	t.Helper()

	previous := timezone.GetLocation()

	require.NoError(t, timezone.SetLocation(name))

	t.Cleanup(func() {
		_ = timezone.SetLocation(previous.String())
	})
}

func TestSetLocation(t *testing.T) {
	useLocation(t, "Asia/Jakarta")
	assert.Equal(t, "Asia/Jakarta", timezone.GetLocation().String())
	assert.Equal(t, "Asia/Jakarta", timezone.Now().Location().String())

	err := timezone.SetLocation("Mars/Olympus_Mons")
	assert.Error(t, err)
	assert.Equal(t, time.UTC, timezone.GetLocation())
}

func TestParseISO8601(t *testing.T) {
	useLocation(t, "Asia/Jakarta")

	jakarta := timezone.GetLocation()

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "date only is midnight local", value: "2025-06-01", want: time.Date(2025, 6, 1, 0, 0, 0, 0, jakarta)},
		{name: "date time without seconds", value: "2025-06-01T14:30", want: time.Date(2025, 6, 1, 14, 30, 0, 0, jakarta)},
		{name: "rfc3339 keeps offset", value: "2025-06-01T10:00:00Z", want: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		{name: "garbage", value: "next tuesday", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timezone.ParseISO8601(tt.value)

			if tt.wantErr {
				assert.ErrorIs(t, err, timezone.ErrInvalidISO8601)

				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	useLocation(t, "Asia/Jakarta")

	formatted := timezone.Format(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), "2006-01-02 15:04")

	assert.Equal(t, "2024-01-01 19:00", formatted)

	parsed, err := timezone.Parse(time.DateOnly, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", parsed.Location().String())
}
