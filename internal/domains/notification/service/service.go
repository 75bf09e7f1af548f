package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"

	"resort/config"
	"resort/infras/otel"
	"resort/internal/domains/notification/model"
	"resort/internal/domains/notification/model/dto"
	"resort/internal/domains/notification/repository"
	"resort/shared"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/event"
	"resort/shared/failure"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const msgNotificationNotFound = "notification not found"

type Notification interface {
	GetMine(ctx context.Context, req gDto.QueryParams, unreadOnly bool) (dto.GetNotificationsResponse, error)
	MarkRead(ctx context.Context, id string) (dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context) (dto.MarkAllReadResponse, error)
	// NotifyReservation stores the inbox entry for a reservation event. Redelivered events are ignored.
	NotifyReservation(ctx context.Context, message event.Message, payload event.ReservationPayload) error
}

type serviceImpl struct {
	repo repository.Notification
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Notification, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams, unreadOnly bool) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.GetMine")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := dto.InboxFilter(user, unreadOnly)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	unread := total
	if !unreadOnly {
		unread, err = s.repo.Count(ctx, dto.InboxFilter(user, true))
		if err != nil {
			log.Error().Err(err).Msg("failed to count unread notifications")

			return res, fmt.Errorf("failed to count unread notifications: %w", err)
		}
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, unread, req.Limit)

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (res dto.NotificationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkRead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := dto.OwnedFilter(id, user)

	notification, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notification")

		return res, fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.ID == constant.Empty {
		return res, failure.NotFound(msgNotificationNotFound) // nolint:wrapcheck
	}

	if !notification.Read() {
		now := timezone.Now()

		fields := shared.TransformFields(struct{}{}, user)
		fields[model.FieldReadAt] = now

		if err = s.repo.Update(ctx, fields, filter); err != nil {
			log.Error().Err(err).Msg("failed to mark notification as read")

			return res, fmt.Errorf("failed to mark notification as read: %w", err)
		}

		notification.ReadAt = &now
	}

	res.FromModel(notification)

	return res, nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context) (res dto.MarkAllReadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkAllRead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := dto.InboxFilter(user, true)

	unread, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if unread == 0 {
		return res, nil
	}

	fields := shared.TransformFields(struct{}{}, user)
	fields[model.FieldReadAt] = timezone.Now()

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notifications as read")

		return res, fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	res.Updated = unread

	return res, nil
}

func (s *serviceImpl) NotifyReservation(ctx context.Context, message event.Message, payload event.ReservationPayload) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.NotifyReservation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if payload.UserID == constant.Empty {
		log.Warn().Str("reservation_id", payload.ReservationID).Msg("reservation event without owner, skipping")

		return nil
	}

	title, text, ok := model.Compose(message.Type, payload)
	if !ok {
		return nil
	}

	reservationID := payload.ReservationID
	notification := model.Notification{
		ID:            uuid.NewString(),
		UserID:        payload.UserID,
		ReservationID: &reservationID,
		Type:          message.Type,
		Title:         title,
		Message:       text,
		DedupKey:      dedupKey(message, payload),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.SystemUser,
			ModifiedBy: constant.SystemUser,
		},
	}

	if err = s.repo.Insert(ctx, notification); err != nil {
		if failure.GetCode(failure.FromDatabase(err, constant.Empty)) == http.StatusConflict {
			log.Info().Str("dedup_key", notification.DedupKey).Msg("notification already stored")

			return nil
		}

		log.Error().Err(err).Msg("failed to store notification")

		return fmt.Errorf("failed to store notification: %w", err)
	}

	return nil
}

func dedupKey(message event.Message, payload event.ReservationPayload) string {
	return fmt.Sprintf("%s:%s:%s:%d", message.Type, payload.ReservationID, payload.Status, message.OccurredAt.UnixNano())
}
