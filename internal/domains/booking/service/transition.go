package service

import (
	"context"
	"fmt"
	"slices"

	"rental/internal/domains/booking/model"
	"rental/internal/domains/booking/model/dto"
	notificationModel "rental/internal/domains/notification/model"
	paymentDto "rental/internal/domains/payment/model/dto"
	"rental/shared"
	"rental/shared/constant"
	"rental/shared/failure"
	"rental/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// applyFunc checks the guards of one transition against the locked booking,
// mutates it and returns the columns to persist. Nil fields persist nothing.
type applyFunc func(ctx context.Context, sqltx *sqlx.Tx, booking *model.Booking) (map[string]any, error)

// transition runs apply with the booking row held FOR UPDATE. When
// syncListing is set the listing status is recomputed in the same transaction.
func (s *serviceImpl) transition(ctx context.Context, id string, syncListing bool, apply applyFunc) (booking model.Booking, err error) {
	user := shared.IdentityFromContext(ctx).ID

	err = s.tx.Run(ctx, func(ctx context.Context, sqltx *sqlx.Tx) error {
		var err error

		booking, err = s.repo.GetForUpdateTx(ctx, sqltx, byID(id))
		if err != nil {
			log.Error().Err(err).Str("booking", id).Msg("failed to lock booking")

			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if !booking.IsParty(user) {
			return failure.Forbidden("you are not a party to this booking") // nolint:wrapcheck
		}

		fields, err := apply(ctx, sqltx, &booking)
		if err != nil {
			return err
		}

		if len(fields) > 0 {
			now := timezone.Now()
			fields[constant.FieldModifiedAt] = now
			fields[constant.FieldModifiedBy] = user
			booking.ModifiedAt = now
			booking.ModifiedBy = user

			if err = s.repo.UpdateTx(ctx, sqltx, fields, byID(booking.ID)); err != nil {
				log.Error().Err(err).Str("booking", booking.ID).Msg("failed to update booking")

				return fmt.Errorf("failed to update booking: %w", err)
			}
		}

		if syncListing {
			return s.syncListing(ctx, sqltx, booking.ListingID)
		}

		return nil
	})

	return booking, err
}

func requireStatus(booking *model.Booking, allowed ...string) error {
	if slices.Contains(allowed, booking.Status) {
		return nil
	}

	return failure.Conflict("booking cannot be changed in its current status: " + booking.Status) // nolint:wrapcheck
}

func requireRenter(ctx context.Context, booking *model.Booking, action string) error {
	if booking.RenterID != shared.IdentityFromContext(ctx).ID {
		return failure.Forbidden("only the listing owner can " + action + " this booking") // nolint:wrapcheck
	}

	return nil
}

func requireRentee(ctx context.Context, booking *model.Booking, action string) error {
	if booking.RenteeID != shared.IdentityFromContext(ctx).ID {
		return failure.Forbidden("only the booker can " + action + " this booking") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Approve(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, false, func(ctx context.Context, _ *sqlx.Tx, booking *model.Booking) (map[string]any, error) {
		if err := requireRenter(ctx, booking, "approve"); err != nil {
			return nil, err
		}

		if err := requireStatus(booking, model.StatusPendingConfirm); err != nil {
			return nil, err
		}

		booking.Status = model.StatusBooked

		return map[string]any{model.FieldStatus: booking.Status}, nil
	})
	if err != nil {
		return res, err
	}

	s.invalidate(ctx, booking)
	s.notify(ctx, booking, notificationModel.EventBookingApproved, booking.RenteeID,
		"Booking approved", booking.BookingNumber+" was approved by the owner")

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Reject(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, true, func(ctx context.Context, _ *sqlx.Tx, booking *model.Booking) (map[string]any, error) {
		if err := requireRenter(ctx, booking, "reject"); err != nil {
			return nil, err
		}

		if err := requireStatus(booking, model.StatusPendingConfirm); err != nil {
			return nil, err
		}

		fields := map[string]any{model.FieldStatus: model.StatusRejected}
		booking.Status = model.StatusRejected

		if !booking.IsPaid() {
			if booking.PaymentID != nil {
				if _, err := s.payment.Cancel(ctx, *booking.PaymentID); err != nil {
					return nil, err
				}
			}

			booking.PaymentStatus = model.PaymentStatusRejected
			fields[model.FieldPaymentStatus] = booking.PaymentStatus
		}

		return fields, nil
	})
	if err != nil {
		return res, err
	}

	s.invalidate(ctx, booking)
	s.notify(ctx, booking, notificationModel.EventBookingRejected, booking.RenteeID,
		"Booking rejected", booking.BookingNumber+" was rejected by the owner")

	res.FromModel(booking)

	return res, nil
}

// Cancel releases the hold of an unpaid booking. Captured funds are never
// released through this path.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.transition(ctx, id, true, func(ctx context.Context, _ *sqlx.Tx, booking *model.Booking) (map[string]any, error) {
		if booking.Status == model.StatusCancelled {
			return nil, failure.Conflict("booking is already cancelled") // nolint:wrapcheck
		}

		if booking.IsPaid() {
			return nil, failure.Conflict("paid bookings cannot be cancelled") // nolint:wrapcheck
		}

		if err := requireStatus(booking, model.StatusBooked, model.StatusPendingConfirm); err != nil {
			return nil, err
		}

		if booking.PaymentID != nil {
			if _, err := s.payment.Cancel(ctx, *booking.PaymentID); err != nil {
				return nil, err
			}
		}

		booking.Status = model.StatusCancelled
		booking.PaymentStatus = model.PaymentStatusRejected

		return map[string]any{
			model.FieldStatus:        booking.Status,
			model.FieldPaymentStatus: booking.PaymentStatus,
		}, nil
	})
	if err != nil {
		return res, err
	}

	counterparty := booking.RenterID
	if counterparty == shared.IdentityFromContext(ctx).ID {
		counterparty = booking.RenteeID
	}

	s.invalidate(ctx, booking)
	s.notify(ctx, booking, notificationModel.EventBookingCancelled, counterparty,
		"Booking cancelled", booking.BookingNumber+" was cancelled")

	res.FromModel(booking)

	return res, nil
}

// Pay places a hold on a new payment method and captures it. The new hold is
// stored before the previous one is released, and the booking is marked paid
// in a second transaction. A capture that cannot be recorded is refunded; one
// the processor does not confirm keeps the new hold so a later pickup can
// retry it.
func (s *serviceImpl) Pay(ctx context.Context, id string, req dto.PayBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Pay")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var (
		hold     paymentDto.Hold
		previous *string
	)

	booking, err := s.transition(ctx, id, false, func(ctx context.Context, _ *sqlx.Tx, booking *model.Booking) (map[string]any, error) {
		if err := requireRentee(ctx, booking, "pay"); err != nil {
			return nil, err
		}

		if booking.IsPaid() {
			return nil, failure.Conflict("booking is already paid") // nolint:wrapcheck
		}

		if err := requireStatus(booking, model.StatusPendingConfirm, model.StatusBooked, model.StatusPicked); err != nil {
			return nil, err
		}

		var err error

		hold, err = s.authorize(ctx, *booking, req.PaymentMethodID, booking.ID+":pay:"+uuid.NewString())
		if err != nil {
			return nil, err
		}

		previous = booking.PaymentID
		booking.PaymentID = &hold.ID

		return map[string]any{model.FieldPaymentID: hold.ID}, nil
	})
	if err != nil {
		if hold.ID != constant.Empty {
			s.releaseHold(ctx, hold.ID)
		}

		return res, err
	}

	if previous != nil && *previous != hold.ID {
		s.releaseHold(ctx, *previous)
	}

	s.invalidate(ctx, booking)

	result, ok := s.payment.Capture(ctx, hold.ID, hold.ID+":capture")
	if !ok {
		return res, failure.PaymentError("payment could not be captured") // nolint:wrapcheck
	}

	booking, err = s.transition(ctx, id, false, func(_ context.Context, _ *sqlx.Tx, booking *model.Booking) (map[string]any, error) {
		if booking.PaymentID == nil || *booking.PaymentID != hold.ID {
			return nil, failure.Conflict("booking payment changed while it was being captured") // nolint:wrapcheck
		}

		if booking.IsPaid() {
			return nil, nil
		}

		return markPaid(booking, result.TransactionID, result.Amount), nil
	})
	if err != nil {
		s.refund(ctx, hold.ID)

		return res, err
	}

	s.invalidate(ctx, booking)
	s.notify(ctx, booking, notificationModel.EventBookingPaid, booking.RenterID,
		"Booking paid", booking.BookingNumber+" was paid")

	res.FromModel(booking)

	return res, nil
}

// Pickup captures the hold, if the booking is not paid yet, and records the
// hand-over. Images are uploaded before the transaction and dropped again
// when it fails.
func (s *serviceImpl) Pickup(ctx context.Context, id string, req dto.HandoverRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Pickup")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	handover, err := s.handover(ctx, req)
	if err != nil {
		return res, err
	}

	booking, err := s.transition(ctx, id, false, func(ctx context.Context, _ *sqlx.Tx, booking *model.Booking) (map[string]any, error) {
		if err := requireStatus(booking, model.StatusBooked); err != nil {
			return nil, err
		}

		fields := map[string]any{}

		if !booking.IsPaid() {
			if booking.PaymentStatus == model.PaymentStatusUnknown {
				return nil, failure.Conflict("payment outcome of this booking is still being reconciled") // nolint:wrapcheck
			}

			if booking.PaymentID == nil {
				return nil, failure.PaymentRejected("booking has no payment authorization, pay it first") // nolint:wrapcheck
			}

			result, ok := s.payment.Capture(ctx, *booking.PaymentID, booking.ID+":capture")
			if !ok {
				return nil, failure.PaymentError("payment could not be captured") // nolint:wrapcheck
			}

			fields = markPaid(booking, result.TransactionID, result.Amount)
		}

		booking.Status = model.StatusPicked
		booking.Pickup = &handover
		fields[model.FieldStatus] = booking.Status
		fields[model.FieldPickup] = handover

		return fields, nil
	})
	if err != nil {
		s.dropImages(ctx, handover.Images)

		return res, err
	}

	s.invalidate(ctx, booking)
	s.notify(ctx, booking, notificationModel.EventBookingPicked, booking.RenteeID,
		"Item picked up", booking.BookingNumber+" was picked up")

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Dropoff(ctx context.Context, id string, req dto.HandoverRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Dropoff")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	handover, err := s.handover(ctx, req)
	if err != nil {
		return res, err
	}

	booking, err := s.transition(ctx, id, true, func(_ context.Context, _ *sqlx.Tx, booking *model.Booking) (map[string]any, error) {
		if err := requireStatus(booking, model.StatusPicked); err != nil {
			return nil, err
		}

		booking.Status = model.StatusReturned
		booking.Dropoff = &handover

		return map[string]any{
			model.FieldStatus:  booking.Status,
			model.FieldDropoff: handover,
		}, nil
	})
	if err != nil {
		s.dropImages(ctx, handover.Images)

		return res, err
	}

	s.invalidate(ctx, booking)
	s.notify(ctx, booking, notificationModel.EventBookingReturned, booking.RenterID,
		"Item returned", booking.BookingNumber+" was returned")

	res.FromModel(booking)

	return res, nil
}

// Delete keeps paid bookings for audit as status deleted and removes unpaid
// ones.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var staleHold *string

	booking, err := s.transition(ctx, id, true, func(ctx context.Context, sqltx *sqlx.Tx, booking *model.Booking) (map[string]any, error) {
		if booking.Status == model.StatusDeleted {
			return nil, failure.Conflict("booking is already deleted") // nolint:wrapcheck
		}

		if booking.IsPaid() {
			booking.Status = model.StatusDeleted

			return map[string]any{model.FieldStatus: booking.Status}, nil
		}

		if booking.HoldsDates() {
			staleHold = booking.PaymentID
		}

		if err := s.repo.DeleteTx(ctx, sqltx, byID(booking.ID)); err != nil {
			log.Error().Err(err).Str("booking", booking.ID).Msg("failed to delete booking")

			return nil, fmt.Errorf("failed to delete booking: %w", err)
		}

		return nil, nil
	})
	if err != nil {
		return err
	}

	if staleHold != nil {
		s.releaseHold(ctx, *staleHold)
	}

	counterparty := booking.RenterID
	if counterparty == shared.IdentityFromContext(ctx).ID {
		counterparty = booking.RenteeID
	}

	s.invalidate(ctx, booking)
	s.notify(ctx, booking, notificationModel.EventBookingDeleted, counterparty,
		"Booking deleted", booking.BookingNumber+" was deleted")

	return nil
}

func markPaid(booking *model.Booking, transactionID string, amount decimal.Decimal) map[string]any {
	booking.PaymentStatus = model.PaymentStatusPaid
	booking.TransactionID = &transactionID
	booking.PaidAmount = decimal.NewNullDecimal(amount)

	return map[string]any{
		model.FieldPaymentStatus: booking.PaymentStatus,
		model.FieldTransactionID: transactionID,
		model.FieldPaidAmount:    amount,
	}
}

func (s *serviceImpl) handover(ctx context.Context, req dto.HandoverRequest) (model.Handover, error) {
	handover := model.Handover{
		By:   shared.IdentityFromContext(ctx).ID,
		At:   timezone.Now(),
		Note: req.Note,
	}

	for i, header := range req.Images {
		url, err := s.s3.UploadImage(ctx, model.EntityName, req.ImageFiles[i], header)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload handover image")

			s.dropImages(ctx, handover.Images)

			return handover, fmt.Errorf("failed to upload image: %w", err)
		}

		handover.Images = append(handover.Images, url)
	}

	return handover, nil
}

func (s *serviceImpl) dropImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.s3.Delete(context.WithoutCancel(ctx), url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to delete handover image")
		}
	}
}
