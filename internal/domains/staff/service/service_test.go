package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/otel/mocks"
	s3Mocks "resort/infras/s3/mocks"
	staffMocks "resort/internal/domains/staff/mocks"
	"resort/internal/domains/staff/model"
	"resort/internal/domains/staff/model/dto"
	"resort/internal/domains/staff/service"
	cacheMocks "resort/shared/cache/mocks"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
)

type fixture struct {
	svc     service.Member
	repo    *staffMocks.MockMember
	cache   *cacheMocks.MockRedisCache
	storage *s3Mocks.MockStorage
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:    staffMocks.NewMockMember(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
		storage: s3Mocks.NewMockStorage(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.storage)

	return f
}

func chef() model.Member {
	return model.Member{
		ID:           "m-1",
		Name:         "Made Wirawan",
		Position:     "Executive chef",
		Department:   "food_beverage",
		Photo:        "https://cdn/staff/old.png",
		DisplayOrder: 1,
		Active:       true,
	}
}

func TestMemberService_Create(t *testing.T) {
	header := &multipart.FileHeader{Filename: "made.png"}

	t.Run("without photo", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m model.Member) error {
				assert.Empty(t, m.Photo)
				assert.True(t, m.Active)

				return nil
			})

		res, err := f.svc.Create(context.Background(), dto.CreateMemberRequest{Name: "Made", Position: "Chef"})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
	})

	t.Run("with photo", func(t *testing.T) {
		f := setup(t)

		f.storage.EXPECT().UploadImage(gomock.Any(), "staff", gomock.Any(), header).Return("https://cdn/staff/made.png", nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(context.Background(), dto.CreateMemberRequest{Name: "Made", Position: "Chef", Photo: header})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn/staff/made.png", res.Photo)
	})

	t.Run("insert fails and the photo is removed", func(t *testing.T) {
		f := setup(t)

		f.storage.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn/staff/made.png", nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
		f.storage.EXPECT().DeleteByURL(gomock.Any(), "https://cdn/staff/made.png").Return(nil)

		_, err := f.svc.Create(context.Background(), dto.CreateMemberRequest{Name: "Made", Position: "Chef", Photo: header})

		assert.Error(t, err)
	})

	t.Run("upload fails", func(t *testing.T) {
		f := setup(t)

		f.storage.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("s3 down"))

		_, err := f.svc.Create(context.Background(), dto.CreateMemberRequest{Name: "Made", Position: "Chef", Photo: header})

		assert.ErrorContains(t, err, "failed to upload photo")
	})
}

func TestMemberService_GetAll(t *testing.T) {
	t.Run("anonymous callers only see active members", func(t *testing.T) {
		f := setup(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, group gDto.FilterGroup) (int, error) {
				require.Len(t, group.Filters, 1)
				filter, ok := group.Filters[0].(gDto.Filter)
				require.True(t, ok)
				assert.Equal(t, model.FieldActive, filter.Field)
				assert.Equal(t, true, filter.Value)

				return 1, nil
			})
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Member, error) {
				assert.Equal(t, model.FieldDisplayOrder, params.SortBy)

				return []model.Member{chef()}, nil
			})

		params := dto.RosterParams()
		params.Page, params.Limit = 1, 10

		res, err := f.svc.GetAll(context.Background(), params, dto.MemberFilter{})

		time.Sleep(10 * time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Members, 1)
	})

	t.Run("admins may list inactive members", func(t *testing.T) {
		f := setup(t)

		inactive := false

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, group gDto.FilterGroup) (int, error) {
				require.Len(t, group.Filters, 1)
				filter, ok := group.Filters[0].(gDto.Filter)
				require.True(t, ok)
				assert.Equal(t, false, filter.Value)

				return 0, nil
			})
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleAdmin)
		_, err := f.svc.GetAll(ctx, gDto.QueryParams{Page: 1, Limit: 10}, dto.MemberFilter{Active: &inactive})

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})
}

func TestMemberService_Get(t *testing.T) {
	f := setup(t)

	f.cache.EXPECT().Get(gomock.Any(), "staff:get:missing", gomock.Any()).Return(errors.New("cache miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Member{}, nil)

	_, err := f.svc.Get(context.Background(), "missing")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestMemberService_Update(t *testing.T) {
	header := &multipart.FileHeader{Filename: "new.png"}

	t.Run("new photo replaces the old one", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(chef(), nil)
		f.storage.EXPECT().UploadImage(gomock.Any(), "staff", gomock.Any(), header).Return("https://cdn/staff/new.png", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "https://cdn/staff/new.png", fields[model.FieldPhoto])
				assert.Equal(t, "Sous chef", fields[model.FieldPosition])

				return nil
			})
		f.storage.EXPECT().DeleteByURL(gomock.Any(), "https://cdn/staff/old.png").Return(nil)

		err := f.svc.Update(context.Background(), dto.UpdateMemberRequest{Position: "Sous chef", Photo: header}, "m-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
	})

	t.Run("failed update keeps the old photo", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(chef(), nil)
		f.storage.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn/staff/new.png", nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
		f.storage.EXPECT().DeleteByURL(gomock.Any(), "https://cdn/staff/new.png").Return(nil)

		err := f.svc.Update(context.Background(), dto.UpdateMemberRequest{Photo: header}, "m-1")

		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Member{}, nil)

		err := f.svc.Update(context.Background(), dto.UpdateMemberRequest{Name: "X"}, "m-1")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestMemberService_Delete(t *testing.T) {
	f := setup(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(chef(), nil)
	f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
	f.storage.EXPECT().DeleteByURL(gomock.Any(), "https://cdn/staff/old.png").Return(nil)

	err := f.svc.Delete(context.Background(), "m-1")

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
}
