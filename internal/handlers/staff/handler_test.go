package staff_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"resort/infras/otel/mocks"
	"resort/internal/domains/staff/model/dto"
	serviceMocks "resort/internal/domains/staff/service/mocks"
	"resort/internal/handlers/staff"
	gDto "resort/shared/dto"
)

const memberID = "3f5c2a9d-1e4b-4c7a-8d2f-000000000001"

func setup(t *testing.T) (*serviceMocks.MockMember, http.Handler) {
	t.Helper()

	svc := serviceMocks.NewMockMember(gomock.NewController(t))
	handler := staff.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func TestHandler_CreateMember(t *testing.T) {
	t.Run("form fields reach the service", func(t *testing.T) {
		svc, router := setup(t)

		svc.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req dto.CreateMemberRequest) (dto.MemberResponse, error) {
				assert.Equal(t, "Made Wirawan", req.Name)
				assert.Equal(t, "Head Chef", req.Position)
				assert.Equal(t, "food_beverage", req.Department)
				assert.Equal(t, 3, req.DisplayOrder)
				require.NotNil(t, req.Active)
				assert.False(t, *req.Active)
				assert.Nil(t, req.Photo)

				return dto.MemberResponse{ID: memberID}, nil
			})

		req := multipartRequest(t, http.MethodPost, "/staff", map[string]string{
			"name":          "Made Wirawan",
			"position":      "Head Chef",
			"department":    "food_beverage",
			"display_order": "3",
			"active":        "false",
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), memberID)
	})

	t.Run("non numeric display order", func(t *testing.T) {
		_, router := setup(t)

		req := multipartRequest(t, http.MethodPost, "/staff", map[string]string{
			"name":          "Made Wirawan",
			"position":      "Head Chef",
			"display_order": "first",
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "display_order must be a number")
	})

	t.Run("unknown department", func(t *testing.T) {
		_, router := setup(t)

		req := multipartRequest(t, http.MethodPost, "/staff", map[string]string{
			"name":       "Made Wirawan",
			"position":   "Head Chef",
			"department": "marketing",
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not a multipart body", func(t *testing.T) {
		_, router := setup(t)

		req := httptest.NewRequest(http.MethodPost, "/staff", bytes.NewBufferString(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetMembers(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, params gDto.QueryParams, filter dto.MemberFilter) (dto.GetMembersResponse, error) {
			assert.Equal(t, "display_order", params.SortBy)
			assert.Equal(t, "spa", filter.Department)

			return dto.GetMembersResponse{}, nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/staff?department=spa", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_DeleteMember(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().Delete(gomock.Any(), memberID).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/staff/"+memberID, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
