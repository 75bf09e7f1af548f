package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"resort/config"
	"resort/infras/otel"
	"resort/internal/domains/newsletter/model"
	"resort/internal/domains/newsletter/model/dto"
	"resort/internal/domains/newsletter/repository"
	"resort/shared"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/event"
	"resort/shared/failure"
	"resort/shared/metrics"
	"resort/shared/timezone"

	"github.com/rs/zerolog/log"
)

const msgSubscriptionNotFound = "subscription not found"

type Newsletter interface {
	Subscribe(ctx context.Context, req dto.SubscribeRequest) (dto.SubscribeResponse, error)
	Unsubscribe(ctx context.Context, req dto.UnsubscribeRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetSubscribersResponse, error)
}

type serviceImpl struct {
	repo      repository.Subscriber
	cfg       *config.Config
	otel      otel.Otel
	publisher event.Publisher
	metrics   *metrics.Metrics
}

func New(repo repository.Subscriber, cfg *config.Config, otel otel.Otel, publisher event.Publisher, metrics *metrics.Metrics) Newsletter {
	return &serviceImpl{
		repo:      repo,
		cfg:       cfg,
		otel:      otel,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Subscribe registers an address. Subscribing an active address again changes nothing; a previously
// unsubscribed address is reactivated and keeps its token.
func (s *serviceImpl) Subscribe(ctx context.Context, req dto.SubscribeRequest) (res dto.SubscribeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".newsletter.Subscribe")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email := req.NormalizedEmail()
	filter := dto.FieldFilter(model.FieldEmail, email)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get newsletter subscriber")

		return res, fmt.Errorf("failed to get newsletter subscriber: %w", err)
	}

	switch {
	case current.ID == constant.Empty:
		current = req.ToModel()

		if err = s.repo.Insert(ctx, current); err != nil {
			if failure.IsFailure(failure.FromDatabase(err, constant.Empty)) {
				// a concurrent request registered the same address first
				res.FromModel(req.ToModel())

				return res, nil
			}

			log.Error().Err(err).Msg("failed to create newsletter subscriber")

			return res, fmt.Errorf("failed to create newsletter subscriber: %w", err)
		}
	case current.Subscribed:
		res.FromModel(current)

		return res, nil
	default:
		now := timezone.Now()

		fields := shared.TransformFields(struct{}{}, constant.ContextGuest)
		fields[model.FieldSubscribed] = true
		fields[model.FieldSubscribedAt] = now
		fields[model.FieldUnsubscribedAt] = nil

		if req.Name != constant.Empty {
			fields[model.FieldName] = req.Name
			current.Name = req.Name
		}

		if err = s.repo.Update(ctx, fields, dto.FieldFilter(model.FieldID, current.ID)); err != nil {
			log.Error().Err(err).Msg("failed to reactivate newsletter subscriber")

			return res, fmt.Errorf("failed to reactivate newsletter subscriber: %w", err)
		}

		current.Subscribed = true
		current.SubscribedAt = now
		current.UnsubscribedAt = nil
	}

	s.publish(ctx, event.TypeNewsletterSubscribed, current)

	res.FromModel(current)

	return res, nil
}

func (s *serviceImpl) Unsubscribe(ctx context.Context, req dto.UnsubscribeRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".newsletter.Unsubscribe")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	current, err := s.repo.Get(ctx, dto.FieldFilter(model.FieldToken, req.Token))
	if err != nil {
		log.Error().Err(err).Msg("failed to get newsletter subscriber")

		return fmt.Errorf("failed to get newsletter subscriber: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound(msgSubscriptionNotFound) // nolint:wrapcheck
	}

	if !current.Subscribed {
		return nil
	}

	fields := shared.TransformFields(struct{}{}, constant.ContextGuest)
	fields[model.FieldSubscribed] = false
	fields[model.FieldUnsubscribedAt] = timezone.Now()

	if err = s.repo.Update(ctx, fields, dto.FieldFilter(model.FieldID, current.ID)); err != nil {
		log.Error().Err(err).Msg("failed to unsubscribe newsletter subscriber")

		return fmt.Errorf("failed to unsubscribe newsletter subscriber: %w", err)
	}

	s.publish(ctx, event.TypeNewsletterUnsubscribed, current)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetSubscribersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".newsletter.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count newsletter subscribers")

		return res, fmt.Errorf("failed to count newsletter subscribers: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get newsletter subscribers")

		return res, fmt.Errorf("failed to get newsletter subscribers: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, subscriber model.Subscriber) {
	if s.publisher == nil {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)
		topic := s.cfg.Broker.Topics.Newsletter

		message, err := event.NewMessage(subscriber.Email, eventType, event.NewsletterPayload{
			Email: subscriber.Email,
			Name:  subscriber.Name,
			Token: subscriber.Token,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to build newsletter event")

			return
		}

		result := metrics.ResultSuccess
		if err = s.publisher.Publish(c, topic, message); err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("failed to publish newsletter event")

			result = metrics.ResultFailure
		}

		if s.metrics != nil {
			s.metrics.BrokerMessage(topic, metrics.DirectionPublish, result)
		}
	}()
}
