package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/otel/mocks"
	s3Mocks "resort/infras/s3/mocks"
	resourceMocks "resort/internal/domains/resource/mocks"
	"resort/internal/domains/resource/model"
	"resort/internal/domains/resource/model/dto"
	"resort/internal/domains/resource/service"
	cacheMocks "resort/shared/cache/mocks"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
)

var errCacheMiss = errors.New("cache miss")

func intPtr(v int) *int { return &v }

type fixture struct {
	repo    *resourceMocks.MockResource
	cache   *cacheMocks.MockRedisCache
	storage *s3Mocks.MockStorage
	svc     service.Resource
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:    resourceMocks.NewMockResource(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
		storage: s3Mocks.NewMockStorage(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Reservation.DefaultIncrementMinute = 30

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.storage)

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func TestResourceService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateResourceRequest
		setupMock func(f fixture)
		wantCode  int
		check     func(t *testing.T, res dto.ResourceResponse)
	}{
		{
			name: "room defaults to nightly billing",
			req:  dto.CreateResourceRequest{Name: "R101", Category: "room", Rate: 10000},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r model.Resource) error {
					assert.Equal(t, model.BillingUnitNight, r.BillingUnit)
					assert.Equal(t, model.DefaultCurrency, r.Currency)
					assert.True(t, r.Active)
					assert.Equal(t, "admin-1", r.CreatedBy)

					return nil
				})
			},
			check: func(t *testing.T, res dto.ResourceResponse) {
				assert.NotEmpty(t, res.ID)
				assert.Equal(t, "night", res.BillingUnit)
			},
		},
		{
			name: "hall takes configured increment",
			req:  dto.CreateResourceRequest{Name: "Ballroom", Category: "hall", Rate: 50000, Currency: "EUR"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.ResourceResponse) {
				assert.Equal(t, "hour", res.BillingUnit)
				assert.Equal(t, 30, res.BillingIncrementMinutes)
				assert.Equal(t, "EUR", res.Currency)
			},
		},
		{
			name: "inverted capacity bounds",
			req: dto.CreateResourceRequest{
				Name: "T4", Category: "table",
				Capacity: &dto.CapacityRequest{Min: intPtr(6), Max: intPtr(4)},
			},
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "duplicate name",
			req:  dto.CreateResourceRequest{Name: "R101", Category: "room"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "database error",
			req:  dto.CreateResourceRequest{Name: "R101", Category: "room"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(userContext(), tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestResourceService_GetAll(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}
	filter := dto.ResourceFilter{Category: "room"}.ToFilterGroup()

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.GetAll(context.Background(), params, filter)
		require.NoError(t, err)
	})

	t.Run("cache miss reads and pages", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
		f.repo.EXPECT().Count(gomock.Any(), filter).Return(11, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), params, filter).Return([]model.Resource{{ID: "r-101", Name: "R101"}}, nil)

		res, err := f.svc.GetAll(context.Background(), params, filter)

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 11, res.TotalData)
		assert.Equal(t, 2, res.TotalPage)
		assert.Len(t, res.Resources, 1)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).Times(2)
		f.repo.EXPECT().Count(gomock.Any(), filter).Return(0, errors.New("timeout"))

		_, err := f.svc.GetAll(context.Background(), params, filter)
		assert.Error(t, err)
	})
}

func TestResourceService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "resource:get:r-101", gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Resource{ID: "r-101"}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Resource{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "r-101")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "r-101", res.ID)
		})
	}
}

func TestResourceService_Update(t *testing.T) {
	current := model.Resource{ID: "r-101", MinCapacity: intPtr(1), MaxCapacity: intPtr(2)}

	t.Run("capacity merged with current bounds", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, intPtr(1), fields[model.FieldMinCapacity])
				assert.Equal(t, intPtr(4), fields[model.FieldMaxCapacity])
				assert.Equal(t, "Garden Suite", fields[model.FieldName])

				return nil
			})

		err := f.svc.Update(userContext(), dto.UpdateResourceRequest{
			Name:     "Garden Suite",
			Capacity: &dto.CapacityRequest{Max: intPtr(4)},
		}, "r-101")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("new max below current min", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Resource{ID: "r-101", MinCapacity: intPtr(3)}, nil)

		err := f.svc.Update(userContext(), dto.UpdateResourceRequest{Capacity: &dto.CapacityRequest{Max: intPtr(2)}}, "r-101")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("missing resource", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Resource{}, nil)

		err := f.svc.Update(userContext(), dto.UpdateResourceRequest{Name: "x"}, "r-404")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestResourceService_UploadImage(t *testing.T) {
	req := dto.UploadImageRequest{Image: &multipart.FileHeader{Filename: "suite.png"}}

	t.Run("replaces previous image", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Resource{ID: "r-101", Image: "https://cdn/resources/old.png"}, nil)
		f.storage.EXPECT().UploadImage(gomock.Any(), "resources", gomock.Any(), req.Image).Return("https://cdn/resources/new.png", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.storage.EXPECT().DeleteByURL(gomock.Any(), "https://cdn/resources/old.png").Return(nil)

		res, err := f.svc.UploadImage(userContext(), req, "r-101")

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn/resources/new.png", res.Image)
	})

	t.Run("removes uploaded object when the row update fails", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Resource{ID: "r-101"}, nil)
		f.storage.EXPECT().UploadImage(gomock.Any(), "resources", gomock.Any(), req.Image).Return("https://cdn/resources/new.png", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		f.storage.EXPECT().DeleteByURL(gomock.Any(), "https://cdn/resources/new.png").Return(nil)

		_, err := f.svc.UploadImage(userContext(), req, "r-101")

		assert.Error(t, err)
	})
}

func TestResourceService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "deleted",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Resource{ID: "r-101"}, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "referenced by reservations",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Resource{ID: "r-101"}, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Resource{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(userContext(), "r-101")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
