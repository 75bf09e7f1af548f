package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"

	"resort/config"
	"resort/infras/otel"
	"resort/internal/domains/reservation/model"
	"resort/internal/domains/reservation/model/dto"
	"resort/internal/domains/reservation/pricing"
	"resort/internal/domains/reservation/repository"
	resourceModel "resort/internal/domains/resource/model"
	resourceRepo "resort/internal/domains/resource/repository"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/event"
	"resort/shared/failure"
	"resort/shared/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

// MsgNotAvailable is returned for detected overlaps and for lost races alike.
const MsgNotAvailable = "resource is not available for the selected time"

const (
	msgReservationNotFound = "reservation not found"
	msgResourceNotFound    = "resource not found"
	msgGuestCount          = "guest count is outside the resource capacity"
)

const (
	opCreate       = "create"
	opUpdate       = "update"
	opConfirm      = "confirm"
	opCheckIn      = "check_in"
	opComplete     = "complete"
	opCancel       = "cancel"
	opNoShow       = "no_show"
	opPurge        = "purge"
	opAvailability = "availability"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Availability(ctx context.Context, resourceID string, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (dto.ReservationResponse, error)
	Confirm(ctx context.Context, id string) (dto.ReservationResponse, error)
	CheckIn(ctx context.Context, id string) (dto.ReservationResponse, error)
	Complete(ctx context.Context, id string) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, req dto.CancelReservationRequest, id string) (dto.ReservationResponse, error)
	MarkNoShow(ctx context.Context, id string) (dto.ReservationResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ReservationFilter) (dto.GetReservationsResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams, filter dto.ReservationFilter) (dto.GetReservationsResponse, error)
	Purge(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Reservation
	resources resourceRepo.Resource
	checker   OverlapChecker
	blocking  model.StatusSet
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	publisher event.Publisher
	metrics   *metrics.Metrics
}

func New(
	repo repository.Reservation,
	resources resourceRepo.Resource,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher event.Publisher,
	metrics *metrics.Metrics,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		resources: resources,
		checker:   NewOverlapChecker(repo),
		blocking:  model.DefaultBlockingStatuses(),
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Create validates the range, then locks the resource, checks overlaps, prices and inserts in one
// serializable transaction.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { s.countOutcome(opCreate, err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	period, err := model.ParseRange(req.Start, req.End)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	status := model.StatusPending
	if shared.IsPrivileged(ctx) {
		status = model.StatusConfirmed
	}

	var created model.Reservation

	err = s.repo.Transact(ctx, func(sqltx *sqlx.Tx) error {
		resource, err := s.lockResource(ctx, sqltx, req.ResourceID)
		if err != nil {
			return err
		}

		if req.GuestCount > 0 && !resource.AcceptsGuests(req.GuestCount) {
			return failure.BadRequestFromString(msgGuestCount) // nolint:wrapcheck
		}

		overlap, err := s.checker.Check(ctx, sqltx, req.ResourceID, period, s.blocking, constant.Empty)
		if err != nil {
			return err
		}

		if overlap.Conflict {
			return failure.Conflict(MsgNotAvailable) // nolint:wrapcheck
		}

		quote, err := pricing.Calculate(tariff(resource), period)
		if err != nil {
			return fmt.Errorf("failed to price reservation: %w", err)
		}

		created = req.ToModel(user, period, status, quote.Total, quote.Currency)
		created.ResourceName = resource.Name
		created.ResourceCategory = string(resource.Category)

		return s.repo.InsertTx(ctx, sqltx, created) //nolint:wrapcheck
	})
	if err != nil {
		return res, s.translate(err, "failed to create reservation")
	}

	s.invalidateLists(ctx)
	s.publish(ctx, event.TypeReservationCreated, created, constant.Empty)

	res.FromModel(created)

	return res, nil
}

// Availability is the read-only variant of the overlap check used for display.
func (s *serviceImpl) Availability(ctx context.Context, resourceID string, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { s.countOutcome(opAvailability, err) }()

	period, err := model.ParseRange(req.Start, req.End)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	resource, err := s.resources.Get(ctx, shared.FilterByID(resourceID, resourceModel.FieldID, resourceModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get resource")

		return res, fmt.Errorf("failed to get resource: %w", err)
	}

	if resource.ID == constant.Empty || !resource.Active {
		return res, failure.NotFound(msgResourceNotFound) // nolint:wrapcheck
	}

	overlap, err := s.checker.Check(ctx, nil, resourceID, period, s.blocking, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to check availability")

		return res, fmt.Errorf("failed to check availability: %w", err)
	}

	res.FromModels(resourceID, period, overlap.Conflicts)

	return res, nil
}

// Update changes guest details and, when a new range is sent, moves the reservation after the
// same overlap check as Create. The reservation itself is excluded from the check.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { s.countOutcome(opUpdate, err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var period model.Range

	if req.Reschedules() {
		if period, err = model.ParseRange(req.Start, req.End); err != nil {
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}
	}

	var updated model.Reservation

	err = s.repo.Transact(ctx, func(sqltx *sqlx.Tx) error {
		current, err := s.loadMutable(ctx, sqltx, id, false)
		if err != nil {
			return err
		}

		// resource before reservation, the same lock order as Create
		resource, err := s.lockResource(ctx, sqltx, current.ResourceID)
		if err != nil {
			return err
		}

		if current, err = s.loadMutable(ctx, sqltx, id, true); err != nil {
			return err
		}

		guestCount := current.GuestCount
		if req.GuestCount != nil {
			guestCount = *req.GuestCount
		}

		if guestCount > 0 && !resource.AcceptsGuests(guestCount) {
			return failure.BadRequestFromString(msgGuestCount) // nolint:wrapcheck
		}

		fields := shared.TransformFields(req, user)

		if req.Reschedules() {
			overlap, err := s.checker.Check(ctx, sqltx, current.ResourceID, period, s.blocking, current.ID)
			if err != nil {
				return err
			}

			if overlap.Conflict {
				return failure.Conflict(MsgNotAvailable) // nolint:wrapcheck
			}

			quote, err := pricing.Calculate(tariff(resource), period)
			if err != nil {
				return fmt.Errorf("failed to price reservation: %w", err)
			}

			fields[model.FieldStartAt] = period.Start
			fields[model.FieldEndAt] = period.End
			fields[model.FieldTotalPrice] = quote.Total
			fields[model.FieldCurrency] = quote.Currency
		}

		if err = s.repo.UpdateTx(ctx, sqltx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return err //nolint:wrapcheck
		}

		updated, err = s.repo.GetTx(ctx, sqltx, id, false)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return res, s.translate(err, "failed to update reservation")
	}

	s.invalidate(ctx, id)
	s.publish(ctx, event.TypeReservationUpdated, updated, constant.Empty)

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (dto.ReservationResponse, error) {
	return s.transition(ctx, opConfirm, id, model.StatusConfirmed, constant.Empty)
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) (dto.ReservationResponse, error) {
	return s.transition(ctx, opCheckIn, id, model.StatusInProgress, constant.Empty)
}

func (s *serviceImpl) Complete(ctx context.Context, id string) (dto.ReservationResponse, error) {
	return s.transition(ctx, opComplete, id, model.StatusCompleted, constant.Empty)
}

func (s *serviceImpl) Cancel(ctx context.Context, req dto.CancelReservationRequest, id string) (dto.ReservationResponse, error) {
	return s.transition(ctx, opCancel, id, model.StatusCancelled, req.Reason)
}

func (s *serviceImpl) MarkNoShow(ctx context.Context, id string) (dto.ReservationResponse, error) {
	return s.transition(ctx, opNoShow, id, model.StatusNoShow, constant.Empty)
}

func (s *serviceImpl) transition(ctx context.Context, operation, id string, target model.Status, reason string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Transition")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { s.countOutcome(operation, err) }()

	scope.SetAttributes(map[string]any{"reservation_id": id, "target_status": target.String()})

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var (
		updated  model.Reservation
		previous model.Status
	)

	err = s.repo.Transact(ctx, func(sqltx *sqlx.Tx) error {
		current, err := s.loadMutable(ctx, sqltx, id, true)
		if err != nil {
			return err
		}

		if !current.Status.CanTransitionTo(target) {
			return failure.Conflict(fmt.Sprintf("reservation cannot change from %s to %s", current.Status, target)) // nolint:wrapcheck
		}

		fields := shared.TransformFields(struct{}{}, user)
		fields[model.FieldStatus] = target

		if reason != constant.Empty {
			fields[model.FieldCancellationReason] = reason
		}

		if err = s.repo.UpdateTx(ctx, sqltx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return err //nolint:wrapcheck
		}

		previous = current.Status
		updated, err = s.repo.GetTx(ctx, sqltx, id, false)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return res, s.translate(err, "failed to change reservation status")
	}

	s.invalidate(ctx, id)
	s.publish(ctx, event.TypeReservationStatusChanged, updated, previous)

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		if err = authorize(ctx, res.CreatedBy); err != nil {
			return dto.ReservationResponse{}, err
		}

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound(msgReservationNotFound) // nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	if err = authorize(ctx, reservation.CreatedBy); err != nil {
		return dto.ReservationResponse{}, err
	}

	return res, nil
}

// GetAll lists every guest's reservations and is limited to privileged roles.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ReservationFilter) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsPrivileged(ctx) {
		return res, failure.ForbiddenError
	}

	return s.list(ctx, req, filter)
}

// GetMine lists the reservations created by the calling user.
func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams, filter dto.ReservationFilter) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetMine")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("missing user") // nolint:wrapcheck
	}

	filter.CreatedBy = user

	return s.list(ctx, req, filter)
}

func (s *serviceImpl) list(ctx context.Context, req gDto.QueryParams, filter dto.ReservationFilter) (res dto.GetReservationsResponse, err error) {
	group := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, group)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.count(ctx, req, group)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

// Purge physically removes a reservation regardless of its status.
func (s *serviceImpl) Purge(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Purge")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { s.countOutcome(opPurge, err) }()

	if role, _ := ctx.Value(constant.ContextKeyUserRole).(string); role != constant.RoleSuperAdmin {
		return failure.ForbiddenError
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	reservation, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return failure.NotFound(msgReservationNotFound) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to purge reservation")

		return fmt.Errorf("failed to purge reservation: %w", err)
	}

	log.Warn().Str("reservation_id", id).Str("status", reservation.Status.String()).Msg("reservation purged")

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) lockResource(ctx context.Context, sqltx *sqlx.Tx, id string) (resourceModel.Resource, error) {
	resource, err := s.resources.GetForUpdateTx(ctx, sqltx, id)
	if err != nil {
		return resource, fmt.Errorf("failed to lock resource: %w", err)
	}

	if resource.ID == constant.Empty || !resource.Active {
		return resource, failure.NotFound(msgResourceNotFound) // nolint:wrapcheck
	}

	return resource, nil
}

// loadMutable returns a reservation the caller may change. Terminal reservations are a Conflict.
func (s *serviceImpl) loadMutable(ctx context.Context, sqltx *sqlx.Tx, id string, forUpdate bool) (model.Reservation, error) {
	current, err := s.repo.GetTx(ctx, sqltx, id, forUpdate)
	if err != nil {
		return current, fmt.Errorf("failed to get reservation: %w", err)
	}

	if current.ID == constant.Empty {
		return current, failure.NotFound(msgReservationNotFound) // nolint:wrapcheck
	}

	if err = authorize(ctx, current.CreatedBy); err != nil {
		return current, err
	}

	if current.Status.IsTerminal() {
		return current, failure.Conflict(fmt.Sprintf("reservation is %s and can no longer change", current.Status)) // nolint:wrapcheck
	}

	return current, nil
}

// translate keeps business failures, maps Postgres race errors to the not-available Conflict and
// wraps anything else as an infrastructure error.
func (s *serviceImpl) translate(err error, message string) error {
	if failure.IsFailure(err) {
		return err
	}

	if mapped := failure.FromDatabase(err, MsgNotAvailable); failure.IsFailure(mapped) {
		log.Warn().Err(err).Msg("reservation rejected by the database")

		return mapped
	}

	log.Error().Err(err).Msg(message)

	return fmt.Errorf("%s: %w", message, err)
}

func (s *serviceImpl) countOutcome(operation string, err error) {
	if s.metrics == nil {
		return
	}

	outcome := metrics.OutcomeError

	switch failure.GetCode(err) {
	case http.StatusConflict:
		outcome = metrics.OutcomeConflict
	case http.StatusBadRequest:
		outcome = metrics.OutcomeInvalid
	case http.StatusNotFound:
		outcome = metrics.OutcomeNotFound
	}

	if err == nil {
		outcome = metrics.OutcomeAccepted
	}

	s.metrics.ReservationOutcome(operation, outcome)
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, reservation model.Reservation, previous model.Status) {
	if s.publisher == nil {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)
		topic := s.cfg.Broker.Topics.Reservation

		message, err := event.NewMessage(reservation.ID, eventType, toPayload(reservation, previous))
		if err != nil {
			log.Error().Err(err).Msg("failed to build reservation event")

			return
		}

		result := metrics.ResultSuccess
		if err = s.publisher.Publish(c, topic, message); err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("failed to publish reservation event")

			result = metrics.ResultFailure
		}

		if s.metrics != nil {
			s.metrics.BrokerMessage(topic, metrics.DirectionPublish, result)
		}
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func tariff(resource resourceModel.Resource) pricing.Tariff {
	return pricing.Tariff{
		Unit:             pricing.Unit(resource.BillingUnit),
		Rate:             resource.Rate,
		IncrementMinutes: resource.BillingIncrementMinutes,
		Currency:         resource.Currency,
	}
}

// authorize lets staff act on any reservation and guests only on their own.
func authorize(ctx context.Context, owner string) error {
	if shared.IsPrivileged(ctx) {
		return nil
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user != constant.Empty && user == owner {
		return nil
	}

	return failure.ResourceRestrictedError
}

func toPayload(reservation model.Reservation, previous model.Status) event.ReservationPayload {
	return event.ReservationPayload{
		ReservationID:  reservation.ID,
		ResourceID:     reservation.ResourceID,
		ResourceName:   reservation.ResourceName,
		UserID:         reservation.CreatedBy,
		GuestName:      reservation.GuestName,
		GuestEmail:     reservation.GuestEmail,
		StartAt:        reservation.StartAt,
		EndAt:          reservation.EndAt,
		Status:         reservation.Status.String(),
		PreviousStatus: previous.String(),
		TotalPrice:     reservation.TotalPrice,
		Currency:       reservation.Currency,
		Reason:         reservation.CancellationReason,
	}
}
