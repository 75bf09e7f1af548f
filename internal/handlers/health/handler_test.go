package health_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"resort/internal/handlers/health"
)

func TestHandler_Readiness(t *testing.T) {
	tests := []struct {
		name     string
		state    health.State
		wantCode int
	}{
		{name: "starting", state: health.StateStarting, wantCode: http.StatusServiceUnavailable},
		{name: "ready", state: health.StateReady, wantCode: http.StatusOK},
		{name: "grace period", state: health.StateInGracePeriod, wantCode: http.StatusServiceUnavailable},
		{name: "cleanup period", state: health.StateInCleanupPeriod, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := health.NewStatus()
			status.Set(tt.state)

			handler := health.New(status, nil)
			rec := httptest.NewRecorder()

			handler.Readiness(rec, httptest.NewRequest(http.MethodGet, "/v1/health/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_Liveness(t *testing.T) {
	status := health.NewStatus()
	handler := health.New(status, nil)

	status.Set(health.StateInGracePeriod)

	rec := httptest.NewRecorder()
	handler.Liveness(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "grace_period")

	status.Set(health.StateInCleanupPeriod)

	rec = httptest.NewRecorder()
	handler.Liveness(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
