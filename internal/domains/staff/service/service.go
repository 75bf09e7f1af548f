package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"resort/config"
	"resort/infras/otel"
	"resort/infras/s3"
	"resort/internal/domains/staff/model"
	"resort/internal/domains/staff/model/dto"
	"resort/internal/domains/staff/repository"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetMember    = "staff:get"
	cacheGetAllMember = "staff:gets"
	cacheCountMember  = "staff:count"
)

const msgMemberNotFound = "staff member not found"

type Member interface {
	Create(ctx context.Context, req dto.CreateMemberRequest) (dto.MemberResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.MemberFilter) (dto.GetMembersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.MemberResponse, error)
	Update(ctx context.Context, req dto.UpdateMemberRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo    repository.Member
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	storage s3.Storage
}

func New(repo repository.Member, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, storage s3.Storage) Member {
	return &serviceImpl{
		repo:    repo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		storage: storage,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMemberRequest) (res dto.MemberResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	photoURL := constant.Empty
	if req.Photo != nil {
		photoURL, err = s.storage.UploadImage(ctx, s3.DirectoryStaff, req.PhotoFile, req.Photo)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload staff photo")

			return res, fmt.Errorf("failed to upload photo: %w", err)
		}
	}

	member := req.ToModel(user, photoURL)

	if err = s.repo.Insert(ctx, member); err != nil {
		log.Error().Err(err).Msg("failed to create staff member")

		s.removePhoto(ctx, photoURL)

		return res, fmt.Errorf("failed to create staff member: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllMember)
		shared.InvalidateCaches(c, s.cache, cacheCountMember)
	}()

	res.FromModel(member)

	return res, nil
}

// GetAll lists the roster. Guests and anonymous callers only ever see active members.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.MemberFilter) (res dto.GetMembersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsPrivileged(ctx) {
		active := true
		filter.Active = &active
	}

	group := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMember, req, group)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staff members")

		return res, nil
	}

	total, err := s.Count(ctx, req, group)
	if err != nil {
		return res, err
	}

	members, err := s.repo.GetAll(ctx, req, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff members")

		return res, fmt.Errorf("failed to get staff members: %w", err)
	}

	res.FromModels(members, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff members to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMember, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count staff members")

		return total, fmt.Errorf("failed to count staff members: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff member count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MemberResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetMember, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for staff member")

		return res, nil
	}

	member, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(member)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save staff member to cache")
		}
	}()

	return res, nil
}

// Update changes profile fields and, when a new photo is attached, swaps the stored photo.
// The previous photo is removed only after the row points at the new one.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMemberRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	photoURL := constant.Empty
	if req.Photo != nil {
		photoURL, err = s.storage.UploadImage(ctx, s3.DirectoryStaff, req.PhotoFile, req.Photo)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload staff photo")

			return fmt.Errorf("failed to upload photo: %w", err)
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if photoURL != constant.Empty {
		updatedFields[model.FieldPhoto] = photoURL
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update staff member")

		s.removePhoto(ctx, photoURL)

		return fmt.Errorf("failed to update staff member: %w", err)
	}

	if photoURL != constant.Empty {
		s.removePhoto(ctx, current.Photo)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".staff.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	member, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete staff member")

		return fmt.Errorf("failed to delete staff member: %w", err)
	}

	s.removePhoto(ctx, member.Photo)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Member, error) {
	member, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get staff member")

		return member, fmt.Errorf("failed to get staff member: %w", err)
	}

	if member.ID == constant.Empty {
		return member, failure.NotFound(msgMemberNotFound) // nolint:wrapcheck
	}

	return member, nil
}

func (s *serviceImpl) removePhoto(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	if err := s.storage.DeleteByURL(ctx, url); err != nil {
		log.Error().Err(err).Str("url", url).Msg("failed to delete staff photo from S3")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMember, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete staff member cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMember)
		shared.InvalidateCaches(c, s.cache, cacheCountMember)
	}()
}
