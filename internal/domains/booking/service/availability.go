package service

//go:generate go run go.uber.org/mock/mockgen -source=./availability.go -destination=../mocks/availability_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"
	"time"

	"rental/config"
	"rental/infras/otel"
	"rental/internal/domains/booking/model"
	"rental/internal/domains/booking/repository"
	"rental/shared"
	"rental/shared/cache"
	"rental/shared/constant"
	gDto "rental/shared/dto"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Availability answers whether a listing's days are free. Hourly bookings
// block their whole day; there is no sub-day granularity.
type Availability interface {
	IsAvailable(ctx context.Context, listingID string, dates model.DateRange) (bool, error)
	// IsAvailableTx reads inside sqltx, after the caller locked the listing row.
	IsAvailableTx(ctx context.Context, sqltx *sqlx.Tx, listingID string, dates model.DateRange) (bool, error)
	ListBusyDates(ctx context.Context, listingID string, month time.Time) ([]string, error)
}

type availabilityImpl struct {
	repo  repository.Booking
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func NewAvailability(repo repository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &availabilityImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// OverlapFilter matches bookings of listingID still holding any day of dates.
func OverlapFilter(listingID string, dates model.DateRange) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldListingID, Operator: gDto.FilterOperatorEq, Value: listingID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorNotIn, Value: model.ReleasedStatuses, Table: model.TableName},
			gDto.Filter{
				ArgName:  "range_to",
				Field:    model.FieldFromDate,
				Operator: gDto.FilterOperatorLessEq,
				Value:    dates.To.Format(constant.DateOnlyFormat),
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "range_from",
				Field:    model.FieldToDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    dates.From.Format(constant.DateOnlyFormat),
				Table:    model.TableName,
			},
		},
	}
}

func (a *availabilityImpl) IsAvailable(ctx context.Context, listingID string, dates model.DateRange) (res bool, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := a.repo.Count(ctx, OverlapFilter(listingID, dates))
	if err != nil {
		log.Error().Err(err).Str("listing", listingID).Msg("failed to count overlapping bookings")

		return false, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}

	return total == 0, nil
}

func (a *availabilityImpl) IsAvailableTx(ctx context.Context, sqltx *sqlx.Tx, listingID string, dates model.DateRange) (res bool, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAvailableTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := a.repo.CountTx(ctx, sqltx, OverlapFilter(listingID, dates))
	if err != nil {
		log.Error().Err(err).Str("listing", listingID).Msg("failed to count overlapping bookings")

		return false, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}

	return total == 0, nil
}

// ListBusyDates expands every holding booking into its days, clipped to the
// month containing month, sorted ascending.
func (a *availabilityImpl) ListBusyDates(ctx context.Context, listingID string, month time.Time) (res []string, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBusyDates")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	monthRange := model.MonthRange(month)
	cacheKey := shared.BuildCacheKey(model.CacheBusy, listingID, monthRange.From.Format(constant.MonthFormat))

	if err = a.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	bookings, err := a.repo.GetAll(ctx, gDto.QueryParams{}, OverlapFilter(listingID, monthRange), model.FieldFromDate, model.FieldToDate)
	if err != nil {
		log.Error().Err(err).Str("listing", listingID).Msg("failed to get bookings for busy dates")

		return nil, fmt.Errorf("failed to get bookings for busy dates: %w", err)
	}

	res = BusyDates(bookings, monthRange)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := a.cache.Save(c, cacheKey, res, a.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save busy dates to cache")
		}
	}()

	return res, nil
}

// BusyDates lists the distinct days within window covered by bookings.
func BusyDates(bookings []model.Booking, window model.DateRange) []string {
	seen := map[string]struct{}{}
	res := []string{}

	for _, booking := range bookings {
		clipped, ok := booking.Range().Intersect(window)
		if !ok {
			continue
		}

		for _, day := range clipped.Dates() {
			key := day.Format(constant.DateOnlyFormat)
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
			res = append(res, key)
		}
	}

	slices.Sort(res)

	return res
}
