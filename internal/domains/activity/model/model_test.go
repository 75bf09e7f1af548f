package model_test

import (
	"testing"

	"resort/internal/domains/activity/model"

	"github.com/stretchr/testify/assert"
)

func TestActivity_WithoutImages(t *testing.T) {
	activity := model.Activity{Images: []string{"a", "b", "c"}}

	assert.Equal(t, []string{"a", "c"}, activity.WithoutImages([]string{"b", "x"}))
	assert.Equal(t, []string{"a", "b", "c"}, activity.WithoutImages(nil))
	assert.Empty(t, activity.WithoutImages([]string{"a", "b", "c"}))
}
