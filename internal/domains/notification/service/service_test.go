package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/otel/mocks"
	notificationMocks "resort/internal/domains/notification/mocks"
	"resort/internal/domains/notification/model"
	"resort/internal/domains/notification/service"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/event"
	"resort/shared/failure"
)

func newService(t *testing.T) (service.Notification, *notificationMocks.MockNotification) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := notificationMocks.NewMockNotification(ctrl)

	return service.New(mockRepo, &config.Config{}, mocks.NewOtel()), mockRepo
}

func guestContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-1")
}

func TestNotificationService_GetMine(t *testing.T) {
	svc, mockRepo := newService(t)

	gomock.InOrder(
		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(5, nil),
		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, group gDto.FilterGroup) (int, error) {
				where, args := group.GetWhereClause()
				assert.Contains(t, where, "read_at IS NULL")
				assert.Equal(t, "guest-1", args[model.FieldUserID])

				return 2, nil
			}),
	)
	mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Notification{
		{ID: "n1", UserID: "guest-1", Title: "Reservation received"},
	}, nil)

	res, err := svc.GetMine(guestContext(), gDto.QueryParams{Page: 1, Limit: 10}, false)

	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalData)
	assert.Equal(t, 2, res.Unread)
	assert.Len(t, res.Notifications, 1)
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("marks an unread entry", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, group gDto.FilterGroup, _ ...string) (model.Notification, error) {
				_, args := group.GetWhereClause()
				assert.Equal(t, "guest-1", args[model.FieldUserID])
				assert.Equal(t, "n1", args[model.FieldID])

				return model.Notification{ID: "n1", UserID: "guest-1"}, nil
			})
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Contains(t, fields, model.FieldReadAt)

				return nil
			})

		res, err := svc.MarkRead(guestContext(), "n1")

		require.NoError(t, err)
		assert.True(t, res.Read)
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		svc, mockRepo := newService(t)

		readAt := time.Now()
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Notification{ID: "n1", ReadAt: &readAt}, nil)

		res, err := svc.MarkRead(guestContext(), "n1")

		require.NoError(t, err)
		assert.True(t, res.Read)
	})

	t.Run("someone else's notification", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Notification{}, nil)

		_, err := svc.MarkRead(guestContext(), "n9")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	t.Run("nothing unread", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)

		res, err := svc.MarkAllRead(guestContext())

		require.NoError(t, err)
		assert.Zero(t, res.Updated)
	})

	t.Run("updates the unread entries", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.MarkAllRead(guestContext())

		require.NoError(t, err)
		assert.Equal(t, 3, res.Updated)
	})
}

func TestNotificationService_NotifyReservation(t *testing.T) {
	payload := event.ReservationPayload{
		ReservationID: "res-1",
		ResourceID:    "r-101",
		ResourceName:  "R101",
		UserID:        "guest-1",
		Status:        "pending",
	}
	message := event.Message{Key: "res-1", Type: event.TypeReservationCreated, OccurredAt: time.Now()}

	t.Run("stores an inbox entry", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n model.Notification) error {
				assert.Equal(t, "guest-1", n.UserID)
				assert.Equal(t, event.TypeReservationCreated, n.Type)
				assert.Equal(t, "Reservation received", n.Title)
				assert.NotEmpty(t, n.DedupKey)
				assert.Equal(t, constant.SystemUser, n.CreatedBy)

				return nil
			})

		assert.NoError(t, svc.NotifyReservation(context.Background(), message, payload))
	})

	t.Run("redelivery is ignored", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		assert.NoError(t, svc.NotifyReservation(context.Background(), message, payload))
	})

	t.Run("storage error is returned", func(t *testing.T) {
		svc, mockRepo := newService(t)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		assert.Error(t, svc.NotifyReservation(context.Background(), message, payload))
	})

	t.Run("event without owner", func(t *testing.T) {
		svc, _ := newService(t)

		anonymous := payload
		anonymous.UserID = ""

		assert.NoError(t, svc.NotifyReservation(context.Background(), message, anonymous))
	})
}
