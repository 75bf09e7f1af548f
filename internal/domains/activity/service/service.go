package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"resort/config"
	"resort/infras/otel"
	"resort/infras/s3"
	"resort/internal/domains/activity/model"
	"resort/internal/domains/activity/model/dto"
	"resort/internal/domains/activity/repository"
	"resort/shared"
	"resort/shared/cache"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetActivity    = "activity:get"
	cacheGetAllActivity = "activity:gets"
	cacheCountActivity  = "activity:count"
)

const (
	msgActivityNotFound = "activity not found"
	msgActivityExists   = "activity already exists"
	msgTooManyImages    = "activity already has the maximum number of images"
)

var ErrDeleteImagesFromS3 = errors.New("failed to delete images from S3")

type Activity interface {
	Create(ctx context.Context, req dto.CreateActivityRequest) (dto.ActivityResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetActivitiesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ActivityResponse, error)
	Update(ctx context.Context, req dto.UpdateActivityRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, req dto.UploadImageRequest, id string) (dto.ActivityResponse, error)
	DeleteImages(ctx context.Context, req dto.DeleteImagesRequest, id string) (dto.ActivityResponse, error)
}

type serviceImpl struct {
	repo    repository.Activity
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	storage s3.Storage
}

func New(repo repository.Activity, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, storage s3.Storage) Activity {
	return &serviceImpl{
		repo:    repo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		storage: storage,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateActivityRequest) (res dto.ActivityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	activity := req.ToModel(user)

	if err = s.repo.Insert(ctx, activity); err != nil {
		log.Error().Err(err).Msg("failed to create activity")

		if mapped := failure.FromDatabase(err, msgActivityExists); failure.IsFailure(mapped) {
			return res, mapped
		}

		return res, fmt.Errorf("failed to create activity: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllActivity)
		shared.InvalidateCaches(c, s.cache, cacheCountActivity)
	}()

	res.FromModel(activity)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetActivitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllActivity, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for activities")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	activities, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get activities")

		return res, fmt.Errorf("failed to get activities: %w", err)
	}

	res.FromModels(activities, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save activities to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountActivity, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activities")

		return total, fmt.Errorf("failed to count activities: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save activity count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ActivityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetActivity, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for activity")

		return res, nil
	}

	activity, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(activity)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save activity to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateActivityRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update activity")

		if mapped := failure.FromDatabase(err, msgActivityExists); failure.IsFailure(mapped) {
			return mapped
		}

		return fmt.Errorf("failed to update activity: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	activity, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete activity")

		return fmt.Errorf("failed to delete activity: %w", err)
	}

	s.invalidate(ctx, id)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.deleteObjects(c, activity.Images); err != nil {
			log.Error().Err(err).Msg("failed to delete activity images")
		}
	}()

	return nil
}

// UploadImage appends one image to the activity gallery.
func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadImageRequest, id string) (res dto.ActivityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.UploadImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	activity, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if len(activity.Images) >= model.MaxImages {
		return res, failure.BadRequestFromString(msgTooManyImages) // nolint:wrapcheck
	}

	url, err := s.storage.UploadImage(ctx, s3.DirectoryActivities, req.ImageFile, req.Image)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload activity image")

		return res, fmt.Errorf("failed to upload image: %w", err)
	}

	images := append(append([]string{}, activity.Images...), url)

	updatedFields := shared.TransformFields(struct{}{}, user)
	updatedFields[model.FieldImages] = pq.StringArray(images)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to attach activity image")

		if delErr := s.storage.DeleteByURL(ctx, url); delErr != nil {
			log.Error().Err(delErr).Msg("failed to remove orphaned activity image")
		}

		return res, fmt.Errorf("failed to attach activity image: %w", err)
	}

	s.invalidate(ctx, id)

	activity.Images = images
	res.FromModel(activity)

	return res, nil
}

// DeleteImages detaches the listed images from the activity and removes them from storage.
// URLs that do not belong to the activity are ignored.
func (s *serviceImpl) DeleteImages(ctx context.Context, req dto.DeleteImagesRequest, id string) (res dto.ActivityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".activity.DeleteImages")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	activity, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	kept := activity.WithoutImages(req.ImageURLs)
	if len(kept) == len(activity.Images) {
		res.FromModel(activity)

		return res, nil
	}

	updatedFields := shared.TransformFields(struct{}{}, user)
	updatedFields[model.FieldImages] = pq.StringArray(kept)

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to detach activity images")

		return res, fmt.Errorf("failed to detach activity images: %w", err)
	}

	removed := activity.Images
	activity.Images = kept

	if err = s.deleteObjects(ctx, diff(removed, kept)); err != nil {
		log.Warn().Err(err).Msg("activity images detached but not all objects were deleted")
	}

	s.invalidate(ctx, id)

	res.FromModel(activity)

	return res, nil
}

func (s *serviceImpl) deleteObjects(ctx context.Context, urls []string) error {
	var failed int

	for _, url := range urls {
		if err := s.storage.DeleteByURL(ctx, url); err != nil {
			log.Error().Err(err).Str("url", url).Msg("failed to delete file from S3")

			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d images", ErrDeleteImagesFromS3, failed)
	}

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Activity, error) {
	activity, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get activity")

		return activity, fmt.Errorf("failed to get activity: %w", err)
	}

	if activity.ID == constant.Empty {
		return activity, failure.NotFound(msgActivityNotFound) // nolint:wrapcheck
	}

	return activity, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetActivity, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete activity cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllActivity)
		shared.InvalidateCaches(c, s.cache, cacheCountActivity)
	}()
}

func diff(all, kept []string) []string {
	keep := make(map[string]struct{}, len(kept))
	for _, url := range kept {
		keep[url] = struct{}{}
	}

	var out []string

	for _, url := range all {
		if _, ok := keep[url]; !ok {
			out = append(out, url)
		}
	}

	return out
}
