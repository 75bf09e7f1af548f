package model_test

import (
	"testing"

	"resort/internal/domains/resource/model"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestCategory_DefaultBillingUnit(t *testing.T) {
	assert.Equal(t, model.BillingUnitNight, model.CategoryRoom.DefaultBillingUnit())
	assert.Equal(t, model.BillingUnitHour, model.CategoryHall.DefaultBillingUnit())
	assert.Equal(t, model.BillingUnitHour, model.CategoryTable.DefaultBillingUnit())
}

func TestResource_AcceptsGuests(t *testing.T) {
	tests := []struct {
		name     string
		resource model.Resource
		count    int
		want     bool
	}{
		{name: "no bounds", resource: model.Resource{}, count: 40, want: true},
		{name: "within bounds", resource: model.Resource{MinCapacity: intPtr(1), MaxCapacity: intPtr(4)}, count: 2, want: true},
		{name: "at max", resource: model.Resource{MaxCapacity: intPtr(4)}, count: 4, want: true},
		{name: "above max", resource: model.Resource{MaxCapacity: intPtr(4)}, count: 5, want: false},
		{name: "below min", resource: model.Resource{MinCapacity: intPtr(20)}, count: 10, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resource.AcceptsGuests(tt.count))
		})
	}
}

func TestValidCapacity(t *testing.T) {
	assert.True(t, model.ValidCapacity(nil, nil))
	assert.True(t, model.ValidCapacity(intPtr(2), nil))
	assert.True(t, model.ValidCapacity(intPtr(2), intPtr(2)))
	assert.False(t, model.ValidCapacity(intPtr(3), intPtr(2)))
}
