package service

import (
	"context"
	"fmt"

	"rental/config"
	"rental/infras/otel"
	"rental/infras/s3"
	"rental/internal/domains/listing/model"
	"rental/internal/domains/listing/model/dto"
	"rental/internal/domains/listing/repository"
	"rental/shared"
	"rental/shared/cache"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"

	"github.com/rs/zerolog/log"
)

type Listing interface {
	Create(ctx context.Context, req dto.CreateListingRequest) (dto.ListingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetListingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ListingResponse, error)
	Update(ctx context.Context, req dto.UpdateListingRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Listing
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Listing, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Listing {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner := shared.IdentityFromContext(ctx)

	imageURL := constant.Empty

	if req.Image != nil {
		imageURL, err = s.s3.UploadImage(ctx, model.EntityName, req.ImageFile, req.Image)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload listing image")

			return res, fmt.Errorf("failed to upload image: %w", err)
		}
	}

	listing := req.ToModel(owner, imageURL)

	if err = s.repo.Insert(ctx, listing); err != nil {
		log.Error().Err(err).Msg("failed to create listing")

		s.dropImage(ctx, imageURL)

		return res, fmt.Errorf("failed to create listing: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheGetAll+constant.Asterix, model.CacheCount+constant.Asterix)
	}()

	res.FromModel(listing)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetListingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count listings")

		return res, fmt.Errorf("failed to count listings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listings")

		return res, fmt.Errorf("failed to get listings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheCount, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count listings")

		return res, fmt.Errorf("failed to count listings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listing")

		return res, nil
	}

	listing, err := s.getActive(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(listing)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateListingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user := shared.IdentityFromContext(ctx).ID

	current, err := s.getOwned(ctx, id, user)
	if err != nil {
		return err
	}

	imageURL := constant.Empty

	if req.Image != nil {
		imageURL, err = s.s3.UploadImage(ctx, model.EntityName, req.ImageFile, req.Image)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload listing image")

			return fmt.Errorf("failed to upload image: %w", err)
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if imageURL != constant.Empty {
		updatedFields[model.FieldImage] = imageURL
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update listing")

		s.dropImage(ctx, imageURL)

		return fmt.Errorf("failed to update listing: %w", err)
	}

	if imageURL != constant.Empty && current.Image != nil {
		s.dropImage(ctx, *current.Image)
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete only flips the status; bookings keep referencing the row.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.IdentityFromContext(ctx).ID

	current, err := s.getOwned(ctx, id, user)
	if err != nil {
		return err
	}

	if current.Status == model.StatusBooked {
		return failure.Conflict("listing has active bookings (status: " + current.Status + ")")
	}

	fields := map[string]any{
		model.FieldStatus:        model.StatusDeleted,
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete listing")

		return fmt.Errorf("failed to delete listing: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) getActive(ctx context.Context, id string) (model.Listing, error) {
	listing, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get listing")

		return listing, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty || listing.IsDeleted() {
		return listing, failure.NotFound("listing not found") // nolint:wrapcheck
	}

	return listing, nil
}

func (s *serviceImpl) getOwned(ctx context.Context, id, user string) (model.Listing, error) {
	listing, err := s.getActive(ctx, id)
	if err != nil {
		return listing, err
	}

	if listing.OwnerID != user {
		return listing, failure.Forbidden("only the owner can change this listing") // nolint:wrapcheck
	}

	return listing, nil
}

func (s *serviceImpl) dropImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	if err := s.s3.Delete(context.WithoutCancel(ctx), url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("failed to delete listing image")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache,
			shared.BuildCacheKey(model.CacheGet, id),
			model.CacheGetAll+constant.Asterix,
			model.CacheCount+constant.Asterix,
		)
	}()
}
