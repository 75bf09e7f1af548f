package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"resort/infras/otel/mocks"
	"resort/internal/domains/reservation/model"
	"resort/shared/constant"
	gRepo "resort/shared/repository"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapQuery(t *testing.T) {
	repo := gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, nil, mocks.NewOtel())

	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      model.OverlapQuery
		inTx       bool
		wantSuffix string
		wantArgs   []any
	}{
		{
			name: "outside a transaction",
			query: model.OverlapQuery{
				ResourceID: "r-101",
				Range:      model.Range{Start: start, End: end},
				Blocking:   model.StatusSet{model.StatusPending, model.StatusConfirmed},
				ForUpdate:  true,
			},
			wantSuffix: "WHERE reservations.resource_id = $1 AND reservations.start_at < $2 AND reservations.end_at > $3 " +
				"AND reservations.status IN ($4,$5) ORDER BY reservations.start_at",
			wantArgs: []any{"r-101", end, start, "pending", "confirmed"},
		},
		{
			name: "locked and excluding the rescheduled reservation",
			query: model.OverlapQuery{
				ResourceID: "r-101",
				Range:      model.Range{Start: start, End: end},
				Blocking:   model.StatusSet{model.StatusConfirmed},
				ExcludeID:  "res-1",
				ForUpdate:  true,
			},
			inTx: true,
			wantSuffix: "WHERE reservations.resource_id = $1 AND reservations.start_at < $2 AND reservations.end_at > $3 " +
				"AND reservations.status IN ($4) AND reservations.id <> $5 ORDER BY reservations.start_at FOR UPDATE OF reservations",
			wantArgs: []any{"r-101", end, start, "confirmed", "res-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := overlapQuery(repo.Select(), tt.query, tt.inTx).ToSql()
			require.NoError(t, err)

			assert.Contains(t, sql, "FROM reservations LEFT JOIN resources ON resources.id = reservations.resource_id")
			assert.Contains(t, sql, "resources.name AS resource_name")
			assert.True(t, len(sql) > len(tt.wantSuffix) && sql[len(sql)-len(tt.wantSuffix):] == tt.wantSuffix, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&pq.Error{Code: constant.PqErrorCodeSerializationFailure}))
	assert.True(t, Retryable(fmt.Errorf("commit: %w", &pq.Error{Code: constant.PqErrorCodeDeadlockDetected})))
	assert.False(t, Retryable(&pq.Error{Code: constant.PqErrorCodeExclusionViolation}))
	assert.False(t, Retryable(errors.New("connection reset")))
}
