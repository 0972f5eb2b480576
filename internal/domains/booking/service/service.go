package service

import (
	"context"
	"errors"
	"fmt"

	"rental/config"
	"rental/infras/otel"
	"rental/infras/s3"
	"rental/internal/domains/booking/model"
	"rental/internal/domains/booking/model/dto"
	"rental/internal/domains/booking/repository"
	listingModel "rental/internal/domains/listing/model"
	listingRepo "rental/internal/domains/listing/repository"
	notificationModel "rental/internal/domains/notification/model"
	notificationDto "rental/internal/domains/notification/model/dto"
	notificationService "rental/internal/domains/notification/service"
	paymentDto "rental/internal/domains/payment/model/dto"
	paymentService "rental/internal/domains/payment/service"
	reviewModel "rental/internal/domains/review/model"
	reviewRepo "rental/internal/domains/review/repository"
	"rental/shared"
	"rental/shared/cache"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"
	gRepo "rental/shared/repository"
	"rental/shared/timezone"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	RoleRentee = "rentee"
	RoleRenter = "renter"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	// GetAll lists the caller's bookings; role narrows to one side, status to one state.
	GetAll(ctx context.Context, req gDto.QueryParams, role, status string) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Approve(ctx context.Context, id string) (dto.BookingResponse, error)
	Reject(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	Pay(ctx context.Context, id string, req dto.PayBookingRequest) (dto.BookingResponse, error)
	Pickup(ctx context.Context, id string, req dto.HandoverRequest) (dto.BookingResponse, error)
	Dropoff(ctx context.Context, id string, req dto.HandoverRequest) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Booking
	listingRepo  listingRepo.Listing
	reviewRepo   reviewRepo.Review
	availability Availability
	payment      paymentService.Payment
	tx           gRepo.Transaction
	dispatcher   notificationService.Dispatcher
	s3           s3.S3
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	listingRepo listingRepo.Listing,
	reviewRepo reviewRepo.Review,
	availability Availability,
	payment paymentService.Payment,
	tx gRepo.Transaction,
	dispatcher notificationService.Dispatcher,
	s3 s3.S3,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		listingRepo:  listingRepo,
		reviewRepo:   reviewRepo,
		availability: availability,
		payment:      payment,
		tx:           tx,
		dispatcher:   dispatcher,
		s3:           s3,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rentee := shared.IdentityFromContext(ctx)

	dates, err := req.Range()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	listing, err := s.listingRepo.Get(ctx, shared.FilterByID(req.ListingID, listingModel.FieldID, listingModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("listing", req.ListingID).Msg("failed to get listing")

		return res, fmt.Errorf("failed to get listing: %w", err)
	}

	if listing.ID == constant.Empty || listing.IsDeleted() {
		return res, failure.NotFound("listing not found") // nolint:wrapcheck
	}

	if listing.OwnerID == rentee.ID {
		return res, failure.Conflict("you cannot book your own listing") // nolint:wrapcheck
	}

	stats, err := s.reviewRepo.Stats(ctx, reviewModel.UserTarget{UserID: rentee.ID})
	if err != nil {
		log.Error().Err(err).Str("user", rentee.ID).Msg("failed to get review stats")

		return res, fmt.Errorf("failed to get review stats: %w", err)
	}

	if stats.Below(s.cfg.Booking.ReputationMinReviews, s.cfg.Booking.ReputationMinRating) {
		return res, failure.Conflict("your rating is too low to create bookings") // nolint:wrapcheck
	}

	bill, err := model.ComputeBill(req.BookingType, req.Hours, dates, listing.RentPerHour, listing.RentPerDay)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	available, err := s.availability.IsAvailable(ctx, listing.ID, dates)
	if err != nil {
		return res, err
	}

	if !available {
		return res, failure.Conflict("listing is not available for the requested dates") // nolint:wrapcheck
	}

	booking := req.ToModel(uuid.NewString(), rentee, listing, dates, bill)

	if req.PaymentMethodID != constant.Empty {
		hold, authErr := s.authorize(ctx, booking, req.PaymentMethodID, booking.ID)
		if errors.Is(authErr, paymentService.ErrOutcomeUnknown) {
			booking.PaymentStatus = model.PaymentStatusUnknown

			if err = s.persist(ctx, booking); err != nil {
				log.Error().Err(err).Str("booking", booking.ID).Msg("failed to persist booking with unknown payment outcome")
			} else {
				s.invalidate(ctx, booking)
			}

			return res, authErr
		}

		if authErr != nil {
			return res, authErr
		}

		booking.PaymentID = &hold.ID
	}

	if err = s.persist(ctx, booking); err != nil {
		if booking.PaymentID != nil {
			s.releaseHold(ctx, *booking.PaymentID)
		}

		return res, err
	}

	s.invalidate(ctx, booking)
	s.notify(ctx, booking, notificationModel.EventBookingCreated, booking.RenterID,
		"New booking", fmt.Sprintf("%s was requested for %s", booking.BookingNumber, booking.Snapshot.Title))

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, role, status string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := partyFilter(shared.IdentityFromContext(ctx).ID, role, status)
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheGetAll, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.IdentityFromContext(ctx).ID
	cacheKey := shared.BuildCacheKey(model.CacheGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		if res.RenteeID != user && res.RenterID != user {
			return dto.BookingResponse{}, failure.Forbidden("you are not a party to this booking") // nolint:wrapcheck
		}

		return res, nil
	}

	booking, err := s.repo.Get(ctx, byID(id))
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !booking.IsParty(user) {
		return res, failure.Forbidden("you are not a party to this booking") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// authorize places a manual-capture hold for the booking's bill on behalf of
// the listing owner's merchant account.
func (s *serviceImpl) authorize(ctx context.Context, booking model.Booking, paymentMethodID, idempotencyKey string) (paymentDto.Hold, error) {
	account, err := s.payment.GetMerchantAccount(ctx, booking.RenterID)
	if err != nil {
		return paymentDto.Hold{}, err
	}

	if account == nil || !account.IsActive {
		return paymentDto.Hold{}, failure.PaymentRejected("listing owner cannot accept payments yet") // nolint:wrapcheck
	}

	payer := shared.IdentityFromContext(ctx)

	return s.payment.Authorize(ctx, paymentDto.AuthorizeRequest{
		Amount:               booking.TotalBill,
		Currency:             booking.CurrencyCode,
		PayerEmail:           payer.Email,
		PayerName:            payer.Name,
		DestinationAccountID: account.AccountID,
		PaymentMethodID:      paymentMethodID,
		CaptureMode:          paymentDto.CaptureModeManual,
		IdempotencyKey:       idempotencyKey,
		Description:          "Booking " + booking.BookingNumber,
		Metadata: map[string]string{
			"booking_id":     booking.ID,
			"booking_number": booking.BookingNumber,
			"listing_id":     booking.ListingID,
		},
	})
}

// persist locks the listing row, re-checks availability and inserts the
// booking in one transaction, so concurrent requests for a listing serialize.
func (s *serviceImpl) persist(ctx context.Context, booking model.Booking) error {
	return s.tx.Run(ctx, func(ctx context.Context, sqltx *sqlx.Tx) error {
		listing, err := s.listingRepo.GetForUpdateTx(ctx, sqltx, shared.FilterByID(booking.ListingID, listingModel.FieldID, listingModel.TableName))
		if err != nil {
			log.Error().Err(err).Str("listing", booking.ListingID).Msg("failed to lock listing")

			return fmt.Errorf("failed to lock listing: %w", err)
		}

		if listing.ID == constant.Empty || listing.IsDeleted() {
			return failure.NotFound("listing not found") // nolint:wrapcheck
		}

		available, err := s.availability.IsAvailableTx(ctx, sqltx, booking.ListingID, booking.Range())
		if err != nil {
			return err
		}

		if !available {
			return failure.Conflict("listing is not available for the requested dates") // nolint:wrapcheck
		}

		if err = s.repo.InsertTx(ctx, sqltx, booking); err != nil {
			if gRepo.IsPgError(err, pgerrcode.ExclusionViolation) {
				return failure.Conflict("listing is not available for the requested dates") // nolint:wrapcheck
			}

			log.Error().Err(err).Str("booking", booking.ID).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		return s.syncListing(ctx, sqltx, booking.ListingID)
	})
}

// syncListing derives the listing status from its active bookings.
func (s *serviceImpl) syncListing(ctx context.Context, sqltx *sqlx.Tx, listingID string) error {
	active, err := s.repo.CountTx(ctx, sqltx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldListingID, Operator: gDto.FilterOperatorEq, Value: listingID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: model.ActiveStatuses, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("listing", listingID).Msg("failed to count active bookings")

		return fmt.Errorf("failed to count active bookings: %w", err)
	}

	status := listingModel.StatusAvailable
	if active > 0 {
		status = listingModel.StatusBooked
	}

	fields := map[string]any{
		listingModel.FieldStatus: status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.IdentityFromContext(ctx).ID,
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: listingModel.FieldID, Operator: gDto.FilterOperatorEq, Value: listingID, Table: listingModel.TableName},
			gDto.Filter{
				ArgName:  "current_status",
				Field:    listingModel.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    listingModel.StatusDeleted,
				Table:    listingModel.TableName,
			},
		},
	}

	if err = s.listingRepo.UpdateTx(ctx, sqltx, fields, filter); err != nil {
		log.Error().Err(err).Str("listing", listingID).Msg("failed to update listing status")

		return fmt.Errorf("failed to update listing status: %w", err)
	}

	return nil
}

// releaseHold cancels a hold whose booking could not be kept. Failures are
// logged; the hold then expires on the processor side.
func (s *serviceImpl) releaseHold(ctx context.Context, holdID string) {
	if _, err := s.payment.Cancel(context.WithoutCancel(ctx), holdID); err != nil {
		log.Error().Err(err).Str("hold", holdID).Msg("failed to release payment hold")
	}
}

// refund returns a capture whose booking could not be updated. Failures are
// logged for manual follow-up.
func (s *serviceImpl) refund(ctx context.Context, holdID string) {
	if err := s.payment.Refund(context.WithoutCancel(ctx), holdID); err != nil {
		log.Error().Err(err).Str("hold", holdID).Msg("failed to refund unrecorded payment")
	}
}

func (s *serviceImpl) notify(ctx context.Context, booking model.Booking, event, recipient, title, body string) {
	s.dispatcher.Notify(ctx, notificationDto.Event{
		Type:         event,
		RecipientIDs: []string{recipient},
		Title:        title,
		Body:         body,
		Data: map[string]string{
			"booking_id":     booking.ID,
			"booking_number": booking.BookingNumber,
			"status":         booking.Status,
			"payment_status": booking.PaymentStatus,
		},
	})
}

func (s *serviceImpl) invalidate(ctx context.Context, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache,
			shared.BuildCacheKey(model.CacheGet, booking.ID),
			model.CacheGetAll+constant.Asterix,
			model.CacheCount+constant.Asterix,
			shared.BuildCacheKey(model.CacheBusy, booking.ListingID)+constant.Asterix,
			shared.BuildCacheKey(listingModel.CacheGet, booking.ListingID),
			listingModel.CacheGetAll+constant.Asterix,
			listingModel.CacheCount+constant.Asterix,
		)
	}()
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func partyFilter(user, role, status string) gDto.FilterGroup {
	rentee := gDto.Filter{Field: model.FieldRenteeID, Operator: gDto.FilterOperatorEq, Value: user, Table: model.TableName}
	renter := gDto.Filter{Field: model.FieldRenterID, Operator: gDto.FilterOperatorEq, Value: user, Table: model.TableName}

	var party any

	switch role {
	case RoleRentee:
		party = rentee
	case RoleRenter:
		party = renter
	default:
		party = gDto.FilterGroup{Operator: gDto.FilterGroupOperatorOr, Filters: []any{rentee, renter}}
	}

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: []any{party}}

	if status != constant.Empty {
		filter.Filters = append(filter.Filters,
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: status, Table: model.TableName})
	}

	return filter
}
