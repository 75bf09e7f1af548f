package resource_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"resort/infras/otel/mocks"
	reservationDto "resort/internal/domains/reservation/model/dto"
	reservationMocks "resort/internal/domains/reservation/service/mocks"
	"resort/internal/domains/resource/model/dto"
	resourceMocks "resort/internal/domains/resource/service/mocks"
	"resort/internal/handlers/resource"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
)

const resourceID = "0b0e4f7c-8a60-4a43-9a7e-6f7f4c1d0101"

type fixture struct {
	resources    *resourceMocks.MockResource
	reservations *reservationMocks.MockReservation
	router       http.Handler
}

// newFixture mounts the handler behind a middleware that stamps role into the request context.
func newFixture(t *testing.T, role string) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		resources:    resourceMocks.NewMockResource(ctrl),
		reservations: reservationMocks.NewMockReservation(ctrl),
	}

	handler := resource.New(f.resources, f.reservations, mocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if role != "" {
				r = r.WithContext(context.WithValue(r.Context(), constant.ContextKeyUserRole, role))
			}

			next.ServeHTTP(w, r)
		})
	})
	handler.Router(router)

	f.router = router

	return f
}

func (f fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_GetResources(t *testing.T) {
	t.Run("guests only see active resources", func(t *testing.T) {
		f := newFixture(t, "")

		f.resources.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, group gDto.FilterGroup) (dto.GetResourcesResponse, error) {
				where, args := group.GetWhereClause()
				assert.Contains(t, where, "resources.active = :active")
				assert.Equal(t, true, args["active"])

				return dto.GetResourcesResponse{}, nil
			})

		rec := f.serve(httptest.NewRequest(http.MethodGet, "/resources?active=false", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("staff may list inactive resources", func(t *testing.T) {
		f := newFixture(t, constant.RoleStaff)

		f.resources.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, group gDto.FilterGroup) (dto.GetResourcesResponse, error) {
				_, args := group.GetWhereClause()
				assert.Equal(t, false, args["active"])
				assert.Equal(t, "hall", args["category"])

				return dto.GetResourcesResponse{}, nil
			})

		rec := f.serve(httptest.NewRequest(http.MethodGet, "/resources?active=false&category=hall", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(t, "")

		rec := f.serve(httptest.NewRequest(http.MethodGet, "/resources?category=villa", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetAvailability(t *testing.T) {
	t.Run("free window", func(t *testing.T) {
		f := newFixture(t, "")

		f.reservations.EXPECT().
			Availability(gomock.Any(), resourceID, reservationDto.AvailabilityRequest{Start: "2025-03-10", End: "2025-03-12"}).
			Return(reservationDto.AvailabilityResponse{ResourceID: resourceID, Available: true}, nil)

		rec := f.serve(httptest.NewRequest(http.MethodGet, "/resources/"+resourceID+"/availability?start=2025-03-10&end=2025-03-12", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"available":true`)
	})

	t.Run("missing end", func(t *testing.T) {
		f := newFixture(t, "")

		rec := f.serve(httptest.NewRequest(http.MethodGet, "/resources/"+resourceID+"/availability?start=2025-03-10", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture(t, "")

		f.reservations.EXPECT().Availability(gomock.Any(), resourceID, gomock.Any()).
			Return(reservationDto.AvailabilityResponse{}, failure.NotFound("resource"))

		rec := f.serve(httptest.NewRequest(http.MethodGet, "/resources/"+resourceID+"/availability?start=2025-03-10&end=2025-03-12", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_UploadImage(t *testing.T) {
	t.Run("image is required", func(t *testing.T) {
		f := newFixture(t, constant.RoleAdmin)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("caption", "lobby"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPut, "/resources/"+resourceID+"/image", body)
		req.Header.Set(constant.RequestHeaderContentType, writer.FormDataContentType())

		rec := f.serve(req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		f := newFixture(t, constant.RoleAdmin)

		req := httptest.NewRequest(http.MethodPut, "/resources/"+resourceID+"/image", bytes.NewBufferString("{}"))
		req.Header.Set(constant.RequestHeaderContentType, "application/json")

		rec := f.serve(req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
