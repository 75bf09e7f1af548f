package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"resort/shared/failure"
	"resort/shared/validator"

	"github.com/stretchr/testify/assert"
)

type reservationRequest struct {
	ResourceID string `json:"resource_id" validate:"required"`
	Start      string `json:"start"       validate:"required,iso8601"`
	End        string `json:"end"         validate:"required,iso8601"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	GuestCount int    `json:"guest_count" validate:"gte=1,lte=50"`
	Currency   string `json:"currency"    validate:"omitempty,iso4217"`
}

func validRequest() reservationRequest {
	return reservationRequest{
		ResourceID: "R101",
		Start:      "2025-06-01",
		End:        "2025-06-05",
		GuestEmail: "guest@example.com",
		GuestCount: 2,
		Currency:   "USD",
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *reservationRequest)
		wantMsg string
	}{
		{name: "valid", mutate: func(*reservationRequest) {}},
		{name: "rfc3339 start", mutate: func(r *reservationRequest) { r.Start = "2025-06-01T14:00:00+07:00" }},
		{name: "missing resource", mutate: func(r *reservationRequest) { r.ResourceID = "" }, wantMsg: "resource_id is required"},
		{
			name:    "start not iso8601",
			mutate:  func(r *reservationRequest) { r.Start = "06/01/2025" },
			wantMsg: "start must be an ISO-8601 date (2006-01-02) or date-time (2006-01-02T15:04:05Z07:00)",
		},
		{name: "bad email", mutate: func(r *reservationRequest) { r.GuestEmail = "nope" }, wantMsg: "guest_email must be a valid email address"},
		{name: "too many guests", mutate: func(r *reservationRequest) { r.GuestCount = 51 }, wantMsg: "guest_count must be less than or equal to 50"},
		{name: "unknown currency", mutate: func(r *reservationRequest) { r.Currency = "XYZ" }, wantMsg: "currency must be an ISO-4217 currency code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.wantMsg)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidate_DecodesBody(t *testing.T) {
	var req reservationRequest

	err := validator.Validate(strings.NewReader(`{"resource_id":"R101","start":"2025-06-01","end":"2025-06-05","guest_email":"a@b.co","guest_count":1}`), &req)
	assert.NoError(t, err)
	assert.Equal(t, "R101", req.ResourceID)

	err = validator.Validate(strings.NewReader(`{"resource_id":`), &req)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("confirmed", "oneof=pending confirmed"))
	assert.Error(t, validator.ValidateVar("archived", "oneof=pending confirmed"))
	assert.NoError(t, validator.ValidateVar("2025-06-01T10:00", "iso8601"))
}

type imageUpload struct {
	Image *multipart.FileHeader `form:"image" validate:"required,mimetypes=image/png image/jpeg,maxfilesize=1"`
}

type dataURIUpload struct {
	Image string `json:"image" validate:"mimetypes=image/png,maxfilesize=1"`
}

func TestValidateStruct_Files(t *testing.T) {
	header := func(contentType string, size int64) *multipart.FileHeader {
		return &multipart.FileHeader{
			Filename: "suite.png",
			Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
			Size:     size,
		}
	}

	assert.NoError(t, validator.ValidateStruct(&imageUpload{Image: header("image/png", 512)}))
	assert.EqualError(t,
		validator.ValidateStruct(&imageUpload{Image: header("application/pdf", 512)}),
		"image must be one of image/png image/jpeg",
	)
	assert.EqualError(t,
		validator.ValidateStruct(&imageUpload{Image: header("image/jpeg", 2*1024*1024)}),
		"image must not exceed 1 MB",
	)

	assert.NoError(t, validator.ValidateStruct(&dataURIUpload{Image: "data:image/png;base64,iVBORw0KGgo="}))
	assert.Error(t, validator.ValidateStruct(&dataURIUpload{Image: "data:text/plain;base64,SGVsbG8="}))
	assert.Error(t, validator.ValidateStruct(&dataURIUpload{Image: "not a data uri"}))
}
