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
	activityMocks "resort/internal/domains/activity/mocks"
	"resort/internal/domains/activity/model"
	"resort/internal/domains/activity/model/dto"
	"resort/internal/domains/activity/service"
	cacheMocks "resort/shared/cache/mocks"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
	gModel "resort/shared/model"
	"resort/shared/timezone"
)

const activityID = "act-1"

func newService(t *testing.T) (service.Activity, *activityMocks.MockActivity, *cacheMocks.MockRedisCache, *s3Mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := activityMocks.NewMockActivity(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockStorage := s3Mocks.NewMockStorage(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel(), mockStorage), mockRepo, mockCache, mockStorage
}

func snorkeling(images ...string) model.Activity {
	return model.Activity{
		ID:       activityID,
		Name:     "Reef snorkeling",
		Category: "water_sport",
		Price:    4500,
		Currency: "USD",
		Images:   images,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "admin-1",
			ModifiedBy: "admin-1",
		},
	}
}

func TestActivityService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateActivityRequest
		repoErr   error
		wantCode  int
		wantError bool
	}{
		{
			name: "successful creation",
			req:  dto.CreateActivityRequest{Name: "Sunset yoga", Category: "wellness", Price: 2000},
		},
		{
			name:      "duplicate name",
			req:       dto.CreateActivityRequest{Name: "Sunset yoga", Category: "wellness"},
			repoErr:   &pq.Error{Code: constant.PqErrorCodeUniqueViolation},
			wantError: true,
			wantCode:  http.StatusConflict,
		},
		{
			name:      "repository error",
			req:       dto.CreateActivityRequest{Name: "Sunset yoga", Category: "wellness"},
			repoErr:   errors.New("database error"),
			wantError: true,
			wantCode:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _, _ := newService(t)

			mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, a model.Activity) error {
					assert.Equal(t, "USD", a.Currency)
					assert.True(t, a.Active)
					assert.NotNil(t, a.Images)

					return tt.repoErr
				})

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
			res, err := svc.Create(ctx, tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantError {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, "admin-1", res.CreatedBy)
		})
	}
}

func TestActivityService_GetAll(t *testing.T) {
	t.Run("cache miss reads the repository", func(t *testing.T) {
		svc, mockRepo, mockCache, _ := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Activity{snorkeling()}, nil)

		res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
		assert.Len(t, res.Activities, 1)
	})

	t.Run("count error", func(t *testing.T) {
		svc, mockRepo, mockCache, _ := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("count error"))

		_, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

		assert.Error(t, err)
	})
}

func TestActivityService_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, mockRepo, mockCache, _ := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Activity{}, nil)

		_, err := svc.Get(context.Background(), activityID)

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("cache hit", func(t *testing.T) {
		svc, _, mockCache, _ := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), "activity:get:"+activityID, gomock.Any()).Return(nil)

		_, err := svc.Get(context.Background(), activityID)

		assert.NoError(t, err)
	})
}

func TestActivityService_UploadImage(t *testing.T) {
	header := &multipart.FileHeader{Filename: "reef.png"}

	t.Run("appends to the gallery", func(t *testing.T) {
		svc, mockRepo, _, mockStorage := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(snorkeling("https://cdn/activities/a.png"), nil)
		mockStorage.EXPECT().UploadImage(gomock.Any(), "activities", gomock.Any(), header).Return("https://cdn/activities/b.png", nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, pq.StringArray{"https://cdn/activities/a.png", "https://cdn/activities/b.png"}, fields[model.FieldImages])

				return nil
			})

		res, err := svc.UploadImage(context.Background(), dto.UploadImageRequest{Image: header}, activityID)

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Len(t, res.Images, 2)
	})

	t.Run("gallery is full", func(t *testing.T) {
		svc, mockRepo, _, _ := newService(t)

		full := make([]string, model.MaxImages)
		for i := range full {
			full[i] = "https://cdn/activities/x.png"
		}

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(snorkeling(full...), nil)

		_, err := svc.UploadImage(context.Background(), dto.UploadImageRequest{Image: header}, activityID)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("row update fails and the upload is rolled back", func(t *testing.T) {
		svc, mockRepo, _, mockStorage := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(snorkeling(), nil)
		mockStorage.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn/activities/b.png", nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
		mockStorage.EXPECT().DeleteByURL(gomock.Any(), "https://cdn/activities/b.png").Return(nil)

		_, err := svc.UploadImage(context.Background(), dto.UploadImageRequest{Image: header}, activityID)

		assert.Error(t, err)
	})
}

func TestActivityService_DeleteImages(t *testing.T) {
	t.Run("removes only listed images", func(t *testing.T) {
		svc, mockRepo, _, mockStorage := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(snorkeling("https://cdn/a.png", "https://cdn/b.png"), nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, pq.StringArray{"https://cdn/b.png"}, fields[model.FieldImages])

				return nil
			})
		mockStorage.EXPECT().DeleteByURL(gomock.Any(), "https://cdn/a.png").Return(nil)

		res, err := svc.DeleteImages(context.Background(), dto.DeleteImagesRequest{
			ImageURLs: []string{"https://cdn/a.png", "https://elsewhere/c.png"},
		}, activityID)

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/b.png"}, res.Images)
	})

	t.Run("nothing to remove", func(t *testing.T) {
		svc, mockRepo, _, _ := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(snorkeling("https://cdn/a.png"), nil)

		res, err := svc.DeleteImages(context.Background(), dto.DeleteImagesRequest{ImageURLs: []string{"https://cdn/z.png"}}, activityID)

		require.NoError(t, err)
		assert.Len(t, res.Images, 1)
	})
}

func TestActivityService_Delete(t *testing.T) {
	svc, mockRepo, _, mockStorage := newService(t)

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(snorkeling("https://cdn/a.png"), nil)
	mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	mockStorage.EXPECT().DeleteByURL(gomock.Any(), "https://cdn/a.png").Return(nil)

	err := svc.Delete(context.Background(), activityID)

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
}
