package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resort/shared/failure"
	"resort/transport/http/response"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "failure message is kept",
			err:      failure.Conflict("resource is not available for the selected time"),
			wantCode: http.StatusConflict,
			wantMsg:  "resource is not available for the selected time",
		},
		{
			name:     "wrapped failure keeps its code",
			err:      fmt.Errorf("failed to create reservation: %w", failure.NotFound("resource")),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "driver error is masked",
			err:      errors.New("pq: password authentication failed for user \"resort\""),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["error"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, map[string]int{"total_data": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"total_data":2}}`, rec.Body.String())
}
