package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/otel/mocks"
	restaurantMocks "resort/internal/domains/restaurant/mocks"
	"resort/internal/domains/restaurant/model"
	"resort/internal/domains/restaurant/model/dto"
	"resort/internal/domains/restaurant/service"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
)

func boolPtr(b bool) *bool { return &b }

func TestMenuItemService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := restaurantMocks.NewMockMenuItem(ctrl)
	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	tests := []struct {
		name      string
		req       dto.CreateMenuItemRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful creation",
			req:  dto.CreateMenuItemRequest{Name: "Nasi goreng", Course: "main", Price: 1200},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item model.MenuItem) error {
						assert.True(t, item.Available)
						assert.Equal(t, "USD", item.Currency)
						assert.NotNil(t, item.DietaryTags)

						return nil
					})
			},
		},
		{
			name: "repository error",
			req:  dto.CreateMenuItemRequest{Name: "Nasi goreng", Course: "main"},
			setupMock: func() {
				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "chef-1")
			res, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "chef-1", res.CreatedBy)
			}
		})
	}
}

func TestMenuItemService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := restaurantMocks.NewMockMenuItem(ctrl)
	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	filter := dto.MenuItemFilter{Course: "dessert", Available: boolPtr(true)}.ToFilterGroup()

	mockRepo.EXPECT().Count(gomock.Any(), filter).Return(2, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), filter).Return([]model.MenuItem{
		{ID: "1", Name: "Klepon", Course: "dessert", Available: true},
		{ID: "2", Name: "Es cendol", Course: "dessert", Available: true},
	}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 1}, filter)

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.MenuItems, 2)
}

func TestMenuItemService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := restaurantMocks.NewMockMenuItem(ctrl)
	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.MenuItem{}, nil)

	_, err := svc.Get(context.Background(), "missing")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestMenuItemService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := restaurantMocks.NewMockMenuItem(ctrl)
	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	tests := []struct {
		name      string
		req       dto.UpdateMenuItemRequest
		setupMock func()
		wantCode  int
	}{
		{
			name:      "empty request",
			req:       dto.UpdateMenuItemRequest{},
			setupMock: func() {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "not found",
			req:  dto.UpdateMenuItemRequest{Name: "Sate lilit"},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "successful update",
			req:  dto.UpdateMenuItemRequest{Name: "Sate lilit", DietaryTags: []string{"spicy"}},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "Sate lilit", fields["name"])
						assert.Contains(t, fields, "dietary_tags")

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(context.Background(), tt.req, "item-1")

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMenuItemService_SetAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := restaurantMocks.NewMockMenuItem(ctrl)
	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, false, fields[model.FieldAvailable])

			return nil
		})

	err := svc.SetAvailability(context.Background(), dto.SetAvailabilityRequest{Available: boolPtr(false)}, "item-1")

	assert.NoError(t, err)
}

func TestMenuItemService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := restaurantMocks.NewMockMenuItem(ctrl)
	svc := service.New(mockRepo, &config.Config{}, mocks.NewOtel())

	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

	err := svc.Delete(context.Background(), "item-1")

	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
