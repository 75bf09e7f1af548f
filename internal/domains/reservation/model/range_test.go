package model_test

import (
	"testing"
	"time"

	"resort/internal/domains/reservation/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestRange_Overlaps(t *testing.T) {
	existing := model.Range{Start: day(1), End: day(5)}

	tests := []struct {
		name      string
		candidate model.Range
		want      bool
	}{
		{"back to back after", model.Range{Start: day(5), End: day(8)}, false},
		{"back to back before", model.Range{Start: day(1).Add(-48 * time.Hour), End: day(1)}, false},
		{"fully contained", model.Range{Start: day(3), End: day(4)}, true},
		{"exact duplicate", model.Range{Start: day(1), End: day(5)}, true},
		{"covers existing", model.Range{Start: day(1).Add(-time.Hour), End: day(6)}, true},
		{"overlaps start", model.Range{Start: day(1).Add(-time.Hour), End: day(2)}, true},
		{"overlaps end", model.Range{Start: day(4), End: day(7)}, true},
		{"disjoint", model.Range{Start: day(10), End: day(12)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candidate.Overlaps(existing))
			assert.Equal(t, tt.want, existing.Overlaps(tt.candidate))
		})
	}
}

func TestRange_Valid(t *testing.T) {
	assert.True(t, model.Range{Start: day(1), End: day(2)}.Valid())
	assert.False(t, model.Range{Start: day(1), End: day(1)}.Valid())
	assert.False(t, model.Range{Start: day(10), End: day(9)}.Valid())
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
		want    time.Duration
	}{
		{name: "dates", start: "2025-06-01", end: "2025-06-05", want: 96 * time.Hour},
		{name: "date-times", start: "2025-06-01T20:00", end: "2025-06-02T06:00", want: 10 * time.Hour},
		{name: "rfc3339", start: "2025-06-01T20:00:00Z", end: "2025-06-01T22:30:00Z", want: 150 * time.Minute},
		{name: "end before start", start: "2025-06-10", end: "2025-06-09", wantErr: model.ErrEmptyRange},
		{name: "zero length", start: "2025-06-10", end: "2025-06-10", wantErr: model.ErrEmptyRange},
		{name: "bad start", start: "June 1st", end: "2025-06-09", wantErr: model.ErrInvalidStart},
		{name: "bad end", start: "2025-06-01", end: "tomorrow", wantErr: model.ErrInvalidEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := model.ParseRange(tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Duration())
		})
	}
}
