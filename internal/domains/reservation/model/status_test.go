package model_test

import (
	"testing"

	"resort/internal/domains/reservation/model"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsBlocking(t *testing.T) {
	tests := []struct {
		status model.Status
		want   bool
	}{
		{model.StatusPending, true},
		{model.StatusConfirmed, true},
		{model.StatusInProgress, true},
		{model.StatusCompleted, true},
		{model.StatusCancelled, false},
		{model.StatusNoShow, false},
		{model.Status("archived"), false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsBlocking())
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, model.StatusPending.IsTerminal())
	assert.False(t, model.StatusConfirmed.IsTerminal())
	assert.False(t, model.StatusInProgress.IsTerminal())
	assert.True(t, model.StatusCompleted.IsTerminal())
	assert.True(t, model.StatusCancelled.IsTerminal())
	assert.True(t, model.StatusNoShow.IsTerminal())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from model.Status
		to   model.Status
		want bool
	}{
		{"confirm pending", model.StatusPending, model.StatusConfirmed, true},
		{"cancel pending", model.StatusPending, model.StatusCancelled, true},
		{"check in pending", model.StatusPending, model.StatusInProgress, false},
		{"check in confirmed", model.StatusConfirmed, model.StatusInProgress, true},
		{"no show confirmed", model.StatusConfirmed, model.StatusNoShow, true},
		{"cancel confirmed", model.StatusConfirmed, model.StatusCancelled, true},
		{"complete in progress", model.StatusInProgress, model.StatusCompleted, true},
		{"cancel in progress", model.StatusInProgress, model.StatusCancelled, false},
		{"reopen cancelled", model.StatusCancelled, model.StatusPending, false},
		{"confirm completed", model.StatusCompleted, model.StatusConfirmed, false},
		{"revive no show", model.StatusNoShow, model.StatusConfirmed, false},
		{"same status", model.StatusConfirmed, model.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDefaultBlockingStatuses(t *testing.T) {
	set := model.DefaultBlockingStatuses()

	assert.Equal(t, []string{"pending", "confirmed", "in_progress", "completed"}, set.Strings())
	assert.False(t, set.Contains(model.StatusCancelled))
	assert.False(t, set.Contains(model.StatusNoShow))
}
