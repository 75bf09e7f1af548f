package service

import (
	"context"
	"fmt"

	"resort/internal/domains/reservation/model"
	"resort/internal/domains/reservation/repository"

	"github.com/jmoiron/sqlx"
)

// OverlapResult lists the blocking reservations that intersect a candidate range.
type OverlapResult struct {
	Conflict  bool
	Conflicts []model.Reservation
}

// OverlapChecker decides whether a candidate range collides with blocking reservations of the
// same resource. It never reports "no conflict" when the query fails.
type OverlapChecker struct {
	repo repository.Reservation
}

func NewOverlapChecker(repo repository.Reservation) OverlapChecker {
	return OverlapChecker{repo: repo}
}

// Check runs inside sqltx when one is given and locks the conflicting rows. Rows returned by the
// store are filtered again with the half-open rule and the blocking set.
func (c OverlapChecker) Check(
	ctx context.Context,
	sqltx *sqlx.Tx,
	resourceID string,
	candidate model.Range,
	blocking model.StatusSet,
	excludeID string,
) (OverlapResult, error) {
	if !candidate.Valid() {
		return OverlapResult{}, model.ErrEmptyRange
	}

	if len(blocking) == 0 {
		blocking = model.DefaultBlockingStatuses()
	}

	found, err := c.repo.FindOverlapping(ctx, sqltx, model.OverlapQuery{
		ResourceID: resourceID,
		Range:      candidate,
		Blocking:   blocking,
		ExcludeID:  excludeID,
		ForUpdate:  true,
	})
	if err != nil {
		return OverlapResult{}, fmt.Errorf("failed to query overlapping reservations: %w", err)
	}

	result := OverlapResult{}

	for _, existing := range found {
		if existing.ResourceID != resourceID || existing.ID == excludeID {
			continue
		}

		if !blocking.Contains(existing.Status) || !existing.Range().Overlaps(candidate) {
			continue
		}

		result.Conflicts = append(result.Conflicts, existing)
	}

	result.Conflict = len(result.Conflicts) > 0

	return result, nil
}
