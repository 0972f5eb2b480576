package service_test

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rental/config"
	"rental/infras/otel/mocks"
	s3Mocks "rental/infras/s3/mocks"
	bookingMocks "rental/internal/domains/booking/mocks"
	"rental/internal/domains/booking/model"
	"rental/internal/domains/booking/model/dto"
	"rental/internal/domains/booking/service"
	listingMocks "rental/internal/domains/listing/mocks"
	listingModel "rental/internal/domains/listing/model"
	notificationMocks "rental/internal/domains/notification/mocks"
	notificationDto "rental/internal/domains/notification/model/dto"
	paymentMocks "rental/internal/domains/payment/mocks"
	paymentDto "rental/internal/domains/payment/model/dto"
	paymentService "rental/internal/domains/payment/service"
	reviewMocks "rental/internal/domains/review/mocks"
	reviewModel "rental/internal/domains/review/model"
	"rental/shared"
	cacheMocks "rental/shared/cache/mocks"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"
)

const listingID = "7a1f7f2e-2f7c-4b8e-9a59-0c0f3b7f7d11"

// fakeTransaction runs fn inline; the repositories are mocks.
type fakeTransaction struct {
	runs int
}

func (f *fakeTransaction) Run(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	f.runs++

	return fn(ctx, nil)
}

type fixture struct {
	repo         *bookingMocks.MockBooking
	listings     *listingMocks.MockListing
	reviews      *reviewMocks.MockReview
	availability *bookingMocks.MockAvailability
	payment      *paymentMocks.MockPayment
	dispatcher   *notificationMocks.MockDispatcher
	s3           *s3Mocks.MockS3
	cache        *cacheMocks.MockRedisCache
	tx           *fakeTransaction
	svc          service.Booking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:         bookingMocks.NewMockBooking(ctrl),
		listings:     listingMocks.NewMockListing(ctrl),
		reviews:      reviewMocks.NewMockReview(ctrl),
		availability: bookingMocks.NewMockAvailability(ctrl),
		payment:      paymentMocks.NewMockPayment(ctrl),
		dispatcher:   notificationMocks.NewMockDispatcher(ctrl),
		s3:           s3Mocks.NewMockS3(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		tx:           &fakeTransaction{},
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Booking.ReputationMinReviews = 5
	cfg.Booking.ReputationMinRating = 3

	f.svc = service.New(f.repo, f.listings, f.reviews, f.availability, f.payment, f.tx, f.dispatcher, f.s3, cfg, f.cache, mocks.NewOtel())

	return f
}

func renteeContext() context.Context {
	return shared.ContextWithIdentity(context.Background(), shared.Identity{ID: "rentee-1", Email: "rentee@example.com", Name: "Rentee"})
}

func ownerContext() context.Context {
	return shared.ContextWithIdentity(context.Background(), shared.Identity{ID: "owner-1", Email: "owner@example.com", Name: "Owner"})
}

func ptr[T any](v T) *T {
	return &v
}

func listing() listingModel.Listing {
	return listingModel.Listing{
		ID:             listingID,
		OwnerID:        "owner-1",
		Title:          "Camera",
		RentPerHour:    decimal.NewFromInt(10),
		RentPerDay:     decimal.NewFromInt(20),
		CurrencyCode:   "USD",
		Status:         listingModel.StatusAvailable,
		InstantBooking: true,
	}
}

func booking(status, paymentStatus string, paymentID *string) model.Booking {
	return model.Booking{
		ID:            "b-1",
		BookingNumber: "BK1A2B3C4D",
		ListingID:     listingID,
		RenteeID:      "rentee-1",
		RenterID:      "owner-1",
		BookingType:   model.TypeDaily,
		FromDate:      date("2024-01-01"),
		ToDate:        date("2024-01-03"),
		TotalBill:     decimal.NewFromInt(60),
		CurrencyCode:  "USD",
		Status:        status,
		PaymentStatus: paymentStatus,
		PaymentID:     paymentID,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func expectLock(f fixture, locked model.Booking) {
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), byID("b-1")).Return(locked, nil)
}

func expectUpdate(t *testing.T, f fixture, check func(fields map[string]any)) {
	t.Helper()

	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), byID("b-1")).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			check(fields)

			return nil
		})
}

func expectSync(t *testing.T, f fixture, active int, want string) {
	t.Helper()

	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(active, nil)
	f.listings.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
			assert.Equal(t, want, fields[listingModel.FieldStatus])
			assert.Equal(t, gDto.FilterGroupOperatorAnd, filter.Operator)

			return nil
		})
}

func expectPrechecks(f fixture, stats reviewModel.Stats) {
	f.listings.EXPECT().Get(gomock.Any(), shared.FilterByID(listingID, listingModel.FieldID, listingModel.TableName)).Return(listing(), nil)
	f.reviews.EXPECT().Stats(gomock.Any(), reviewModel.UserTarget{UserID: "rentee-1"}).Return(stats, nil)
}

func expectActiveMerchant(f fixture) {
	f.payment.EXPECT().GetMerchantAccount(gomock.Any(), "owner-1").
		Return(&paymentDto.MerchantAccountResponse{AccountID: "acct_1", IsActive: true}, nil)
}

func TestBookingService_HourlyLifecycle(t *testing.T) {
	f := newFixture(t)

	var stored model.Booking

	expectPrechecks(f, reviewModel.Stats{})
	f.availability.EXPECT().IsAvailable(gomock.Any(), listingID, dateRange("2024-05-01", "2024-05-01")).Return(true, nil)
	expectActiveMerchant(f)
	f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req paymentDto.AuthorizeRequest) (paymentDto.Hold, error) {
			assert.True(t, decimal.NewFromInt(30).Equal(req.Amount))
			assert.Equal(t, "USD", req.Currency)
			assert.Equal(t, paymentDto.CaptureModeManual, req.CaptureMode)
			assert.Equal(t, "acct_1", req.DestinationAccountID)
			assert.Equal(t, "rentee@example.com", req.PayerEmail)
			assert.Equal(t, "pm_card", req.PaymentMethodID)
			assert.NotEmpty(t, req.IdempotencyKey)

			return paymentDto.Hold{ID: "pi_1", Status: "requires_capture", Amount: req.Amount, Currency: "usd"}, nil
		})
	f.listings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(listing(), nil)
	f.availability.EXPECT().IsAvailableTx(gomock.Any(), gomock.Any(), listingID, gomock.Any()).Return(true, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
			stored = b

			return nil
		})
	expectSync(t, f, 1, listingModel.StatusBooked)
	f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(3)

	created, err := f.svc.Create(renteeContext(), dto.CreateBookingRequest{
		ListingID:       listingID,
		BookingType:     model.TypeHourly,
		FromDate:        "2024-05-01",
		Hours:           3,
		PaymentMethodID: "pm_card",
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, created.Status)
	assert.Equal(t, model.PaymentStatusPending, created.PaymentStatus)
	assert.True(t, decimal.NewFromInt(30).Equal(created.TotalBill))
	assert.Equal(t, "pi_1", *created.PaymentID)
	assert.Nil(t, created.PaidAmount)
	assert.Equal(t, "2024-05-01", created.FromDate)
	assert.Equal(t, "2024-05-01", created.ToDate)
	assert.Equal(t, 3, *stored.Hours)
	assert.Equal(t, "owner-1", stored.RenterID)
	assert.Equal(t, "Camera", stored.Snapshot.Title)

	expectLock(f, stored)
	f.payment.EXPECT().Capture(gomock.Any(), "pi_1", stored.ID+":capture").
		Return(paymentDto.CaptureResult{TransactionID: "ch_1", Amount: decimal.NewFromInt(30)}, true)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), byID(stored.ID)).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusPicked, fields[model.FieldStatus])
			assert.Equal(t, model.PaymentStatusPaid, fields[model.FieldPaymentStatus])
			assert.Equal(t, "ch_1", fields[model.FieldTransactionID])

			return nil
		})

	picked, err := f.svc.Pickup(ownerContext(), stored.ID, dto.HandoverRequest{Note: "lens cap included"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusPicked, picked.Status)
	assert.Equal(t, model.PaymentStatusPaid, picked.PaymentStatus)
	assert.True(t, decimal.NewFromInt(30).Equal(*picked.PaidAmount))
	assert.Equal(t, "ch_1", *picked.TransactionID)
	assert.Equal(t, "owner-1", picked.Pickup.By)

	stored.Status = model.StatusPicked
	stored.PaymentStatus = model.PaymentStatusPaid

	expectLock(f, stored)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), byID(stored.ID)).Return(nil)
	expectSync(t, f, 0, listingModel.StatusAvailable)

	returned, err := f.svc.Dropoff(ownerContext(), stored.ID, dto.HandoverRequest{})

	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, returned.Status)
	assert.NotNil(t, returned.Dropoff)
}

func TestBookingService_Create(t *testing.T) {
	timeout := fmt.Errorf("%w: %w", paymentService.ErrOutcomeUnknown, failure.PaymentError("payment processor timed out"))

	tests := []struct {
		name          string
		paymentMethod string
		setupMock     func(t *testing.T, f fixture)
		wantKind      string
		wantErrIs     error
	}{
		{
			name:          "overlapping booking is refused before authorizing",
			paymentMethod: "pm_card",
			setupMock: func(_ *testing.T, f fixture) {
				expectPrechecks(f, reviewModel.Stats{})
				f.availability.EXPECT().IsAvailable(gomock.Any(), listingID, gomock.Any()).Return(false, nil)
			},
			wantKind: failure.KindConflict,
		},
		{
			name:          "low reputation",
			paymentMethod: "pm_card",
			setupMock: func(_ *testing.T, f fixture) {
				expectPrechecks(f, reviewModel.Stats{Count: 6, AverageRating: 2.5})
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "deleted listing",
			setupMock: func(_ *testing.T, f fixture) {
				deleted := listing()
				deleted.Status = listingModel.StatusDeleted

				f.listings.EXPECT().Get(gomock.Any(), gomock.Any()).Return(deleted, nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name:          "owner without active merchant account",
			paymentMethod: "pm_card",
			setupMock: func(_ *testing.T, f fixture) {
				expectPrechecks(f, reviewModel.Stats{Count: 2, AverageRating: 1})
				f.availability.EXPECT().IsAvailable(gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				f.payment.EXPECT().GetMerchantAccount(gomock.Any(), "owner-1").
					Return(&paymentDto.MerchantAccountResponse{AccountID: "acct_1"}, nil)
			},
			wantKind: failure.KindPayment,
		},
		{
			name:          "dates taken while authorizing releases the hold",
			paymentMethod: "pm_card",
			setupMock: func(_ *testing.T, f fixture) {
				expectPrechecks(f, reviewModel.Stats{})
				f.availability.EXPECT().IsAvailable(gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				expectActiveMerchant(f)
				f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(paymentDto.Hold{ID: "pi_1"}, nil)
				f.listings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(listing(), nil)
				f.availability.EXPECT().IsAvailableTx(gomock.Any(), gomock.Any(), listingID, gomock.Any()).Return(false, nil)
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").Return(paymentDto.Hold{ID: "pi_1"}, nil)
			},
			wantKind: failure.KindConflict,
		},
		{
			name:          "insert failure releases the hold",
			paymentMethod: "pm_card",
			setupMock: func(_ *testing.T, f fixture) {
				expectPrechecks(f, reviewModel.Stats{})
				f.availability.EXPECT().IsAvailable(gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				expectActiveMerchant(f)
				f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(paymentDto.Hold{ID: "pi_1"}, nil)
				f.listings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(listing(), nil)
				f.availability.EXPECT().IsAvailableTx(gomock.Any(), gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").Return(paymentDto.Hold{ID: "pi_1"}, nil)
			},
			wantKind: failure.KindInternal,
		},
		{
			name:          "exclusion violation is a conflict",
			paymentMethod: "pm_card",
			setupMock: func(_ *testing.T, f fixture) {
				expectPrechecks(f, reviewModel.Stats{})
				f.availability.EXPECT().IsAvailable(gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				expectActiveMerchant(f)
				f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(paymentDto.Hold{ID: "pi_1"}, nil)
				f.listings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(listing(), nil)
				f.availability.EXPECT().IsAvailableTx(gomock.Any(), gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(pgerrcode.ExclusionViolation)})
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").Return(paymentDto.Hold{ID: "pi_1"}, nil)
			},
			wantKind: failure.KindConflict,
		},
		{
			name:          "timed out authorization keeps a reconcilable booking",
			paymentMethod: "pm_card",
			setupMock: func(t *testing.T, f fixture) {
				expectPrechecks(f, reviewModel.Stats{})
				f.availability.EXPECT().IsAvailable(gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				expectActiveMerchant(f)
				f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(paymentDto.Hold{}, timeout)
				f.listings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(listing(), nil)
				f.availability.EXPECT().IsAvailableTx(gomock.Any(), gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
						assert.Equal(t, model.PaymentStatusUnknown, b.PaymentStatus)
						assert.Nil(t, b.PaymentID)

						return nil
					})
				expectSync(t, f, 1, listingModel.StatusBooked)
			},
			wantKind:  failure.KindPayment,
			wantErrIs: paymentService.ErrOutcomeUnknown,
		},
		{
			name: "quote only booking has no payment leg",
			setupMock: func(t *testing.T, f fixture) {
				expectPrechecks(f, reviewModel.Stats{})
				f.availability.EXPECT().IsAvailable(gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				f.listings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(listing(), nil)
				f.availability.EXPECT().IsAvailableTx(gomock.Any(), gomock.Any(), listingID, gomock.Any()).Return(true, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
						assert.Nil(t, b.PaymentID)
						assert.True(t, decimal.NewFromInt(60).Equal(b.TotalBill))

						return nil
					})
				expectSync(t, f, 1, listingModel.StatusBooked)
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, event notificationDto.Event) {
						assert.Equal(t, []string{"owner-1"}, event.RecipientIDs)
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			_, err := f.svc.Create(renteeContext(), dto.CreateBookingRequest{
				ListingID:       listingID,
				BookingType:     model.TypeDaily,
				FromDate:        "2024-01-01",
				ToDate:          "2024-01-03",
				PaymentMethodID: tt.paymentMethod,
			})

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}

			if tt.wantKind != constant.Empty {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_Approve(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(t *testing.T, f fixture)
		wantKind  string
	}{
		{
			name: "owner approves a pending booking",
			ctx:  ownerContext(),
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPendingConfirm, model.PaymentStatusPending, ptr("pi_1")))
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, model.StatusBooked, fields[model.FieldStatus])
				})
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "already booked",
			ctx:  ownerContext(),
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_1")))
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "booker cannot approve",
			ctx:  renteeContext(),
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPendingConfirm, model.PaymentStatusPending, nil))
			},
			wantKind: failure.KindForbidden,
		},
		{
			name: "unknown booking",
			ctx:  ownerContext(),
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, model.Booking{})
			},
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Approve(tt.ctx, "b-1")

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusBooked, res.Status)
		})
	}
}

func TestBookingService_Reject(t *testing.T) {
	tests := []struct {
		name          string
		ctx           context.Context
		setupMock     func(t *testing.T, f fixture)
		wantKind      string
		wantPayStatus string
	}{
		{
			name: "owner rejects and the hold is released",
			ctx:  ownerContext(),
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPendingConfirm, model.PaymentStatusPending, ptr("pi_1")))
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").Return(paymentDto.Hold{ID: "pi_1", Status: "canceled"}, nil)
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])
					assert.Equal(t, model.PaymentStatusRejected, fields[model.FieldPaymentStatus])
				})
				expectSync(t, f, 0, listingModel.StatusAvailable)
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			wantPayStatus: model.PaymentStatusRejected,
		},
		{
			name: "paid booking keeps its payment",
			ctx:  ownerContext(),
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPendingConfirm, model.PaymentStatusPaid, ptr("pi_1")))
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])
					assert.NotContains(t, fields, model.FieldPaymentStatus)
				})
				expectSync(t, f, 0, listingModel.StatusAvailable)
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
			wantPayStatus: model.PaymentStatusPaid,
		},
		{
			name: "already booked",
			ctx:  ownerContext(),
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_1")))
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "booker cannot reject",
			ctx:  renteeContext(),
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPendingConfirm, model.PaymentStatusPending, ptr("pi_1")))
			},
			wantKind: failure.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Reject(tt.ctx, "b-1")

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusRejected, res.Status)
			assert.Equal(t, tt.wantPayStatus, res.PaymentStatus)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(t *testing.T, f fixture)
		wantKind  string
	}{
		{
			name: "booked booking releases its hold once",
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_1")))
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").Return(paymentDto.Hold{ID: "pi_1"}, nil).Times(1)
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
					assert.Equal(t, model.PaymentStatusRejected, fields[model.FieldPaymentStatus])
				})
				expectSync(t, f, 0, listingModel.StatusAvailable)
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, event notificationDto.Event) {
						assert.Equal(t, []string{"owner-1"}, event.RecipientIDs)
					})
			},
		},
		{
			name: "paid booking is refused without a processor call",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPaid, ptr("pi_1")))
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "cancelling twice is a conflict",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusCancelled, model.PaymentStatusRejected, ptr("pi_1")))
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "picked up booking",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPicked, model.PaymentStatusPending, ptr("pi_1")))
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "processor refuses to release",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPendingConfirm, model.PaymentStatusPending, ptr("pi_1")))
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").Return(paymentDto.Hold{}, failure.PaymentError("processor unavailable"))
			},
			wantKind: failure.KindPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Cancel(renteeContext(), "b-1")

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusCancelled, res.Status)
		})
	}
}

func TestBookingService_CancelRetriesAfterFailedWrite(t *testing.T) {
	f := newFixture(t)

	pending := booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_1"))

	expectLock(f, pending)
	f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").Return(paymentDto.Hold{ID: "pi_1", Status: "canceled"}, nil).Times(2)
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), byID("b-1")).Return(errors.New("db down"))

	_, err := f.svc.Cancel(renteeContext(), "b-1")

	require.Error(t, err)

	expectLock(f, pending)
	expectUpdate(t, f, func(fields map[string]any) {
		assert.Equal(t, model.StatusCancelled, fields[model.FieldStatus])
	})
	expectSync(t, f, 0, listingModel.StatusAvailable)
	f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any())

	res, err := f.svc.Cancel(renteeContext(), "b-1")

	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, res.Status)
}

func TestBookingService_Pay(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(t *testing.T, f fixture)
		wantKind  string
		wantCode  int
	}{
		{
			name: "stores the new hold before releasing the old one and captures",
			setupMock: func(t *testing.T, f fixture) {
				stored := false

				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_1")))
				expectActiveMerchant(f)
				f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req paymentDto.AuthorizeRequest) (paymentDto.Hold, error) {
						assert.Equal(t, "pm_other", req.PaymentMethodID)
						assert.True(t, decimal.NewFromInt(60).Equal(req.Amount))

						return paymentDto.Hold{ID: "pi_2"}, nil
					})
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, "pi_2", fields[model.FieldPaymentID])
					assert.NotContains(t, fields, model.FieldPaymentStatus)

					stored = true
				})
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").
					DoAndReturn(func(_ context.Context, _ string) (paymentDto.Hold, error) {
						assert.True(t, stored, "previous hold released before the new one was stored")

						return paymentDto.Hold{ID: "pi_1"}, nil
					})
				f.payment.EXPECT().Capture(gomock.Any(), "pi_2", "pi_2:capture").
					Return(paymentDto.CaptureResult{TransactionID: "ch_2", Amount: decimal.NewFromInt(60)}, true)
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_2")))
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, model.PaymentStatusPaid, fields[model.FieldPaymentStatus])
					assert.Equal(t, "ch_2", fields[model.FieldTransactionID])
				})
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "unconfirmed capture keeps the new hold",
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPendingConfirm, model.PaymentStatusPending, nil))
				expectActiveMerchant(f)
				f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(paymentDto.Hold{ID: "pi_2"}, nil)
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, "pi_2", fields[model.FieldPaymentID])
				})
				f.payment.EXPECT().Capture(gomock.Any(), "pi_2", "pi_2:capture").Return(paymentDto.CaptureResult{}, false)
			},
			wantKind: failure.KindPayment,
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "new hold that cannot be stored is released and the old one kept",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_1")))
				expectActiveMerchant(f)
				f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(paymentDto.Hold{ID: "pi_2"}, nil)
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), byID("b-1")).Return(errors.New("db down"))
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_2").Return(paymentDto.Hold{ID: "pi_2"}, nil)
			},
			wantKind: failure.KindInternal,
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "capture that cannot be recorded is refunded",
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_1")))
				expectActiveMerchant(f)
				f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(paymentDto.Hold{ID: "pi_2"}, nil)
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, "pi_2", fields[model.FieldPaymentID])
				})
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").Return(paymentDto.Hold{ID: "pi_1"}, nil)
				f.payment.EXPECT().Capture(gomock.Any(), "pi_2", "pi_2:capture").
					Return(paymentDto.CaptureResult{TransactionID: "ch_2", Amount: decimal.NewFromInt(60)}, true)
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_2")))
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), byID("b-1")).Return(errors.New("db down"))
				f.payment.EXPECT().Refund(gomock.Any(), "pi_2").Return(nil)
			},
			wantKind: failure.KindInternal,
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "hold replaced while capturing is refunded",
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, nil))
				expectActiveMerchant(f)
				f.payment.EXPECT().Authorize(gomock.Any(), gomock.Any()).Return(paymentDto.Hold{ID: "pi_2"}, nil)
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, "pi_2", fields[model.FieldPaymentID])
				})
				f.payment.EXPECT().Capture(gomock.Any(), "pi_2", "pi_2:capture").
					Return(paymentDto.CaptureResult{TransactionID: "ch_2", Amount: decimal.NewFromInt(60)}, true)
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_3")))
				f.payment.EXPECT().Refund(gomock.Any(), "pi_2").Return(nil)
			},
			wantKind: failure.KindConflict,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "already paid",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPicked, model.PaymentStatusPaid, ptr("pi_1")))
			},
			wantKind: failure.KindConflict,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Pay(renteeContext(), "b-1", dto.PayBookingRequest{PaymentMethodID: "pm_other"})

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.PaymentStatusPaid, res.PaymentStatus)
			assert.Equal(t, "pi_2", *res.PaymentID)
			assert.Equal(t, "ch_2", *res.TransactionID)
		})
	}
}

func TestBookingService_Pickup(t *testing.T) {
	image := dto.HandoverRequest{
		Images:     []*multipart.FileHeader{{Filename: "front.png"}},
		ImageFiles: []multipart.File{nil},
	}

	tests := []struct {
		name      string
		req       dto.HandoverRequest
		setupMock func(t *testing.T, f fixture)
		wantKind  string
	}{
		{
			name: "already paid only transitions",
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPaid, ptr("pi_1")))
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, model.StatusPicked, fields[model.FieldStatus])
					assert.NotContains(t, fields, model.FieldTransactionID)
				})
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "payment outcome unknown",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusUnknown, nil))
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "no authorization to capture",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, nil))
			},
			wantKind: failure.KindPayment,
		},
		{
			name: "pending confirmation",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusPendingConfirm, model.PaymentStatusPending, ptr("pi_1")))
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "failed capture drops uploaded images",
			req:  image,
			setupMock: func(_ *testing.T, f fixture) {
				f.s3.EXPECT().UploadImage(gomock.Any(), model.EntityName, gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/booking/front.png", nil)
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_1")))
				f.payment.EXPECT().Capture(gomock.Any(), "pi_1", "b-1:capture").Return(paymentDto.CaptureResult{}, false)
				f.s3.EXPECT().Delete(gomock.Any(), "https://cdn.example.com/booking/front.png").Return(nil)
			},
			wantKind: failure.KindPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Pickup(renteeContext(), "b-1", tt.req)

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPicked, res.Status)
		})
	}
}

func TestBookingService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(t *testing.T, f fixture)
		wantKind  string
	}{
		{
			name: "paid booking is kept as deleted",
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusReturned, model.PaymentStatusPaid, ptr("pi_1")))
				expectUpdate(t, f, func(fields map[string]any) {
					assert.Equal(t, model.StatusDeleted, fields[model.FieldStatus])
				})
				expectSync(t, f, 0, listingModel.StatusAvailable)
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "unpaid booking is removed and its hold released",
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusBooked, model.PaymentStatusPending, ptr("pi_1")))
				f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), byID("b-1")).Return(nil)
				expectSync(t, f, 0, listingModel.StatusAvailable)
				f.payment.EXPECT().Cancel(gomock.Any(), "pi_1").Return(paymentDto.Hold{ID: "pi_1"}, nil)
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "cancelled booking is removed without a processor call",
			setupMock: func(t *testing.T, f fixture) {
				expectLock(f, booking(model.StatusCancelled, model.PaymentStatusRejected, ptr("pi_1")))
				f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), byID("b-1")).Return(nil)
				expectSync(t, f, 0, listingModel.StatusAvailable)
				f.dispatcher.EXPECT().Notify(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "already deleted",
			setupMock: func(_ *testing.T, f fixture) {
				expectLock(f, booking(model.StatusDeleted, model.PaymentStatusPaid, ptr("pi_1")))
			},
			wantKind: failure.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			err := f.svc.Delete(renteeContext(), "b-1")

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	t.Run("party reads from the repository", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "booking:get:b-1", gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), byID("b-1")).Return(booking(model.StatusBooked, model.PaymentStatusPending, nil), nil)

		res, err := f.svc.Get(ownerContext(), "b-1")

		require.NoError(t, err)
		assert.Equal(t, "b-1", res.ID)
		assert.Equal(t, "2024-01-01", res.FromDate)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		f := newFixture(t)

		outsider := shared.ContextWithIdentity(context.Background(), shared.Identity{ID: "someone-else"})

		f.cache.EXPECT().Get(gomock.Any(), "booking:get:b-1", gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), byID("b-1")).Return(booking(model.StatusBooked, model.PaymentStatusPending, nil), nil)

		_, err := f.svc.Get(outsider, "b-1")

		assert.Equal(t, failure.KindForbidden, failure.GetKind(err))
	})
}

func TestBookingService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			_, args := filter.GetWhereClause()

			assert.Equal(t, "owner-1", args[model.FieldRenterID])
			assert.NotContains(t, args, model.FieldRenteeID)
			assert.Equal(t, model.StatusBooked, args[model.FieldStatus])

			return 1, nil
		})
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{booking(model.StatusBooked, model.PaymentStatusPending, nil)}, nil)

	res, err := f.svc.GetAll(ownerContext(), gDto.QueryParams{Page: 1, Limit: 10}, service.RoleRenter, model.StatusBooked)

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Bookings, 1)
}
