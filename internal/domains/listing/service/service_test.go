package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rental/config"
	"rental/infras/otel/mocks"
	s3Mocks "rental/infras/s3/mocks"
	listingMocks "rental/internal/domains/listing/mocks"
	"rental/internal/domains/listing/model"
	"rental/internal/domains/listing/model/dto"
	"rental/internal/domains/listing/service"
	"rental/shared"
	cacheMocks "rental/shared/cache/mocks"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"
)

type fixture struct {
	repo  *listingMocks.MockListing
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
	svc   service.Listing
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  listingMocks.NewMockListing(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.s3)

	return f
}

func ownerContext() context.Context {
	return shared.ContextWithIdentity(context.Background(), shared.Identity{ID: "owner-1", CurrencyCode: "EUR"})
}

func existing(status string) model.Listing {
	image := "https://cdn.example.com/listing/old.png"

	return model.Listing{
		ID:           "l-1",
		OwnerID:      "owner-1",
		Title:        "Cordless drill",
		RentPerHour:  decimal.NewFromInt(10),
		RentPerDay:   decimal.NewFromInt(40),
		CurrencyCode: "EUR",
		Status:       status,
		Image:        &image,
	}
}

func TestListingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateListingRequest
		setupMock func(f fixture)
		wantErr   bool
		check     func(t *testing.T, res dto.ListingResponse)
	}{
		{
			name: "currency falls back to owner",
			req:  dto.CreateListingRequest{Title: "Drill", RentPerHour: "10.50", InstantBooking: true},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, listing model.Listing) error {
						assert.Equal(t, "owner-1", listing.OwnerID)
						assert.Equal(t, model.StatusAvailable, listing.Status)
						assert.True(t, listing.RentPerHour.Equal(decimal.RequireFromString("10.50")))
						assert.True(t, listing.RentPerDay.IsZero())

						return nil
					})
			},
			check: func(t *testing.T, res dto.ListingResponse) {
				assert.Equal(t, "EUR", res.CurrencyCode)
				assert.Equal(t, "€", res.CurrencySymbol)
				assert.True(t, res.InstantBooking)
			},
		},
		{
			name: "uploads image",
			req: dto.CreateListingRequest{
				Title:        "Drill",
				RentPerDay:   "40",
				CurrencyCode: "USD",
				Image:        &multipart.FileHeader{Filename: "drill.png"},
			},
			setupMock: func(f fixture) {
				f.s3.EXPECT().UploadImage(gomock.Any(), model.EntityName, gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/listing/a.png", nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, res dto.ListingResponse) {
				assert.Equal(t, "USD", res.CurrencyCode)
				assert.Equal(t, "https://cdn.example.com/listing/a.png", *res.Image)
			},
		},
		{
			name: "insert failure removes uploaded image",
			req: dto.CreateListingRequest{
				Title:      "Drill",
				RentPerDay: "40",
				Image:      &multipart.FileHeader{Filename: "drill.png"},
			},
			setupMock: func(f fixture) {
				f.s3.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/listing/a.png", nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
				f.s3.EXPECT().Delete(gomock.Any(), "https://cdn.example.com/listing/a.png").Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(ownerContext(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			tt.check(t, res)
		})
	}
}

func TestListingService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantKind  string
	}{
		{
			name: "found",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "listing:get:l-1", gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing(model.StatusAvailable), nil)
			},
		},
		{
			name: "soft deleted is hidden",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing(model.StatusDeleted), nil)
			},
			wantKind: failure.KindNotFound,
		},
		{
			name: "missing",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Listing{}, nil)
			},
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), "l-1")

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "l-1", res.ID)
		})
	}
}

func TestListingService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Listing{existing(model.StatusAvailable)}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Listings, 1)
	assert.Equal(t, 1, res.TotalPage)
}

func TestListingService_Update(t *testing.T) {
	title := "Hammer drill"

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdateListingRequest
		setupMock func(f fixture)
		wantKind  string
	}{
		{
			name: "owner updates title",
			ctx:  ownerContext(),
			req:  dto.UpdateListingRequest{Title: &title},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing(model.StatusAvailable), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, title, fields[model.FieldTitle])

						return nil
					})
			},
		},
		{
			name: "new image replaces the old one",
			ctx:  ownerContext(),
			req:  dto.UpdateListingRequest{Image: &multipart.FileHeader{Filename: "new.png"}},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing(model.StatusAvailable), nil)
				f.s3.EXPECT().UploadImage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/listing/new.png", nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "https://cdn.example.com/listing/new.png", fields[model.FieldImage])

						return nil
					})
				f.s3.EXPECT().Delete(gomock.Any(), "https://cdn.example.com/listing/old.png").Return(nil)
			},
		},
		{
			name:      "empty request",
			ctx:       ownerContext(),
			req:       dto.UpdateListingRequest{},
			setupMock: func(_ fixture) {},
			wantKind:  failure.KindValidation,
		},
		{
			name: "not the owner",
			ctx:  shared.ContextWithIdentity(context.Background(), shared.Identity{ID: "someone-else"}),
			req:  dto.UpdateListingRequest{Title: &title},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing(model.StatusAvailable), nil)
			},
			wantKind: failure.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(tt.ctx, tt.req, "l-1")

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestListingService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantKind  string
	}{
		{
			name: "soft deletes",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing(model.StatusAvailable), nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusDeleted, fields[model.FieldStatus])

						return nil
					})
			},
		},
		{
			name: "booked listing",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing(model.StatusBooked), nil)
			},
			wantKind: failure.KindConflict,
		},
		{
			name: "already deleted",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing(model.StatusDeleted), nil)
			},
			wantKind: failure.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(ownerContext(), "l-1")

			if tt.wantKind != constant.Empty {
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
