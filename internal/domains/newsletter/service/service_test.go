package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/otel/mocks"
	newsletterMocks "resort/internal/domains/newsletter/mocks"
	"resort/internal/domains/newsletter/model"
	"resort/internal/domains/newsletter/model/dto"
	"resort/internal/domains/newsletter/service"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/event"
	eventMocks "resort/shared/event/mocks"
	"resort/shared/failure"
	"resort/shared/metrics"
)

type fixture struct {
	svc       service.Newsletter
	repo      *newsletterMocks.MockSubscriber
	publisher *eventMocks.MockPublisher
	published chan event.Message
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:      newsletterMocks.NewMockSubscriber(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
		published: make(chan event.Message, 4),
	}

	cfg := &config.Config{}
	cfg.Broker.Topics.Newsletter = "newsletter.events"

	f.publisher.EXPECT().Publish(gomock.Any(), "newsletter.events", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...event.Message) error {
			for _, m := range messages {
				f.published <- m
			}

			return nil
		}).AnyTimes()

	f.svc = service.New(f.repo, cfg, mocks.NewOtel(), f.publisher, metrics.New("test"))

	return f
}

func (f fixture) next(t *testing.T) event.Message {
	t.Helper()

	select {
	case m := <-f.published:
		return m
	case <-time.After(time.Second):
		t.Fatal("no event published")

		return event.Message{}
	}
}

func (f fixture) none(t *testing.T) {
	t.Helper()

	select {
	case m := <-f.published:
		t.Fatalf("unexpected event %s", m.Type)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestNewsletterService_Subscribe(t *testing.T) {
	t.Run("new address", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, group gDto.FilterGroup, _ ...string) (model.Subscriber, error) {
				_, args := group.GetWhereClause()
				assert.Equal(t, "ayu@resort.test", args[model.FieldEmail])

				return model.Subscriber{}, nil
			})
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s model.Subscriber) error {
				assert.True(t, s.Subscribed)
				assert.NotEmpty(t, s.Token)

				return nil
			})

		res, err := f.svc.Subscribe(context.Background(), dto.SubscribeRequest{Email: " Ayu@Resort.test ", Name: "Ayu"})

		require.NoError(t, err)
		assert.True(t, res.Subscribed)
		assert.Equal(t, "ayu@resort.test", res.Email)

		message := f.next(t)
		assert.Equal(t, event.TypeNewsletterSubscribed, message.Type)

		payload, err := event.DecodePayload[event.NewsletterPayload](message)
		require.NoError(t, err)
		assert.Equal(t, "Ayu", payload.Name)
		assert.NotEmpty(t, payload.Token)
	})

	t.Run("already subscribed is idempotent", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Subscriber{ID: "s1", Email: "ayu@resort.test", Subscribed: true}, nil)

		res, err := f.svc.Subscribe(context.Background(), dto.SubscribeRequest{Email: "ayu@resort.test"})

		require.NoError(t, err)
		assert.True(t, res.Subscribed)
		f.none(t)
	})

	t.Run("returning subscriber is reactivated", func(t *testing.T) {
		f := setup(t)

		left := time.Now().Add(-48 * time.Hour)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Subscriber{ID: "s1", Email: "ayu@resort.test", Token: "tok", UnsubscribedAt: &left}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, true, fields[model.FieldSubscribed])
				assert.Nil(t, fields[model.FieldUnsubscribedAt])

				return nil
			})

		res, err := f.svc.Subscribe(context.Background(), dto.SubscribeRequest{Email: "ayu@resort.test"})

		require.NoError(t, err)
		assert.True(t, res.Subscribed)
		assert.Equal(t, event.TypeNewsletterSubscribed, f.next(t).Type)
	})

	t.Run("concurrent insert of the same address", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Subscriber{}, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		res, err := f.svc.Subscribe(context.Background(), dto.SubscribeRequest{Email: "ayu@resort.test"})

		require.NoError(t, err)
		assert.True(t, res.Subscribed)
		f.none(t)
	})
}

func TestNewsletterService_Unsubscribe(t *testing.T) {
	token := "5f0c7b1e-7d7a-4c38-9d3e-2f8f1f3c9a10"

	t.Run("unknown token", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Subscriber{}, nil)

		err := f.svc.Unsubscribe(context.Background(), dto.UnsubscribeRequest{Token: token})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("active subscriber", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Subscriber{ID: "s1", Email: "ayu@resort.test", Token: token, Subscribed: true}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, false, fields[model.FieldSubscribed])
				assert.NotNil(t, fields[model.FieldUnsubscribedAt])

				return nil
			})

		require.NoError(t, f.svc.Unsubscribe(context.Background(), dto.UnsubscribeRequest{Token: token}))
		assert.Equal(t, event.TypeNewsletterUnsubscribed, f.next(t).Type)
	})

	t.Run("already unsubscribed", func(t *testing.T) {
		f := setup(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Subscriber{ID: "s1", Token: token}, nil)

		require.NoError(t, f.svc.Unsubscribe(context.Background(), dto.UnsubscribeRequest{Token: token}))
		f.none(t)
	})
}

func TestNewsletterService_GetAll(t *testing.T) {
	f := setup(t)

	subscribed := true
	filter := dto.SubscriberFilter{Subscribed: &subscribed}.ToFilterGroup()

	f.repo.EXPECT().Count(gomock.Any(), filter).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), filter).
		Return([]model.Subscriber{{ID: "s1", Email: "ayu@resort.test", Subscribed: true}}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, filter)

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Subscribers, 1)
}
