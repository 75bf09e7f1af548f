package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	reservationMocks "resort/internal/domains/reservation/mocks"
	"resort/internal/domains/reservation/model"
	"resort/internal/domains/reservation/service"
)

func TestOverlapChecker_Check(t *testing.T) {
	candidate := model.Range{Start: day(3), End: day(6)}

	tests := []struct {
		name          string
		candidate     model.Range
		blocking      model.StatusSet
		excludeID     string
		stored        []model.Reservation
		queryErr      error
		noQuery       bool
		wantErr       error
		wantConflicts []string
	}{
		{
			name:      "empty range is rejected before querying",
			candidate: model.Range{Start: day(6), End: day(6)},
			noQuery:   true,
			wantErr:   model.ErrEmptyRange,
		},
		{
			name:      "no rows",
			candidate: candidate,
		},
		{
			name:          "partial overlap",
			candidate:     candidate,
			stored:        []model.Reservation{existing("a", day(1), day(4), model.StatusConfirmed)},
			wantConflicts: []string{"a"},
		},
		{
			name:      "touching boundaries on both sides",
			candidate: candidate,
			stored: []model.Reservation{
				existing("before", day(1), day(3), model.StatusConfirmed),
				existing("after", day(6), day(9), model.StatusConfirmed),
			},
		},
		{
			name:      "non-blocking statuses are ignored",
			candidate: candidate,
			stored: []model.Reservation{
				existing("c", day(2), day(7), model.StatusCancelled),
				existing("n", day(2), day(7), model.StatusNoShow),
			},
		},
		{
			name:          "pending blocks by default",
			candidate:     candidate,
			stored:        []model.Reservation{existing("p", day(4), day(5), model.StatusPending)},
			wantConflicts: []string{"p"},
		},
		{
			name:          "completed stay still occupies its range",
			candidate:     candidate,
			stored:        []model.Reservation{existing("done", day(2), day(4), model.StatusCompleted)},
			wantConflicts: []string{"done"},
		},
		{
			name:      "custom blocking set",
			candidate: candidate,
			blocking:  model.StatusSet{model.StatusConfirmed},
			stored:    []model.Reservation{existing("p", day(4), day(5), model.StatusPending)},
		},
		{
			name:      "excluded reservation is skipped",
			candidate: candidate,
			excludeID: "self",
			stored:    []model.Reservation{existing("self", day(1), day(5), model.StatusConfirmed)},
		},
		{
			name:      "query failure is surfaced",
			candidate: candidate,
			queryErr:  errors.New("timeout"),
			wantErr:   errors.New("timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := reservationMocks.NewMockReservation(ctrl)

			if !tt.noQuery {
				repo.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, query model.OverlapQuery) ([]model.Reservation, error) {
						assert.Equal(t, resourceID, query.ResourceID)
						assert.NotEmpty(t, query.Blocking)
						assert.Equal(t, tt.excludeID, query.ExcludeID)

						return tt.stored, tt.queryErr
					})
			}

			result, err := service.NewOverlapChecker(repo).Check(context.Background(), nil, resourceID, tt.candidate, tt.blocking, tt.excludeID)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.wantErr.Error())
				assert.False(t, result.Conflict)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, len(tt.wantConflicts) > 0, result.Conflict)

			ids := make([]string, 0, len(result.Conflicts))
			for _, conflict := range result.Conflicts {
				ids = append(ids, conflict.ID)
			}

			assert.ElementsMatch(t, tt.wantConflicts, ids)
		})
	}
}
