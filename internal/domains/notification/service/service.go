package service

import (
	"context"
	"fmt"

	"rental/config"
	"rental/infras/otel"
	"rental/infras/push"
	"rental/internal/domains/notification/model"
	"rental/internal/domains/notification/model/dto"
	"rental/internal/domains/notification/repository"
	"rental/shared"
	"rental/shared/cache"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"
	"rental/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Notification interface {
	GetAll(ctx context.Context, req gDto.QueryParams) (dto.GetNotificationsResponse, error)
	MarkRead(ctx context.Context, id string) error
	// Deliver stores the event for every recipient and pushes it. Stored rows
	// are skipped on redelivery.
	Deliver(ctx context.Context, event dto.Event) error
}

type serviceImpl struct {
	repo  repository.Notification
	push  push.Push
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Notification, push push.Push, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Notification {
	return &serviceImpl{
		repo:  repo,
		push:  push,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func recipientFilter(recipientID string) gDto.FilterGroup {
	return shared.FilterByID(recipientID, model.FieldRecipientID, model.TableName)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	recipient := shared.IdentityFromContext(ctx).ID
	filter := recipientFilter(recipient)
	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(model.CacheGetAll, recipient), req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save notifications to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	recipient := shared.IdentityFromContext(ctx).ID
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id, Table: model.TableName},
			gDto.Filter{Field: model.FieldRecipientID, Operator: gDto.FilterOperatorEq, Value: recipient, Table: model.TableName},
		},
	}

	exists, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check notification")

		return fmt.Errorf("failed to check notification: %w", err)
	}

	if !exists {
		return failure.NotFound("notification not found") // nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldReadAt:        timezone.Now(),
		constant.FieldModifiedBy: recipient,
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	s.invalidate(ctx, recipient)

	return nil
}

func (s *serviceImpl) Deliver(ctx context.Context, event dto.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Deliver")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{"event": event.Type, "id": event.ID})

	for _, notification := range event.ToModels() {
		exists, err := s.repo.Exist(ctx, shared.FilterByID(notification.ID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Str("event", event.ID).Msg("failed to check stored notification")

			return fmt.Errorf("failed to check stored notification: %w", err)
		}

		if exists {
			continue
		}

		if err = s.repo.Insert(ctx, notification); err != nil {
			log.Error().Err(err).Str("event", event.ID).Msg("failed to store notification")

			return fmt.Errorf("failed to store notification: %w", err)
		}

		s.invalidate(ctx, notification.RecipientID)
	}

	if err = s.push.Send(ctx, event.ToPushMessage()); err != nil {
		log.Warn().Err(err).Str("event", event.ID).Msg("failed to push notification")

		return fmt.Errorf("failed to push notification: %w", err)
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, recipient string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(model.CacheGetAll, recipient)+constant.Asterix)
	}()
}
