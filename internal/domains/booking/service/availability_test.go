package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"rental/config"
	"rental/infras/otel/mocks"
	bookingMocks "rental/internal/domains/booking/mocks"
	"rental/internal/domains/booking/model"
	"rental/internal/domains/booking/service"
	cacheMocks "rental/shared/cache/mocks"
)

func date(value string) time.Time {
	t, _ := time.Parse(time.DateOnly, value)

	return t
}

func dateRange(from, to string) model.DateRange {
	return model.DateRange{From: date(from), To: date(to)}
}

func TestOverlapFilter(t *testing.T) {
	filter := service.OverlapFilter("l-1", dateRange("2024-01-05", "2024-01-07"))

	where, args := filter.GetWhereClause()

	assert.Contains(t, where, "bookings.from_date <= :range_to")
	assert.Contains(t, where, "bookings.to_date >= :range_from")
	assert.Contains(t, where, "bookings.status NOT IN")
	assert.Equal(t, "l-1", args["listing_id"])
	assert.Equal(t, "2024-01-07", args["range_to"])
	assert.Equal(t, "2024-01-05", args["range_from"])
	assert.Equal(t, model.StatusRejected, args["status_0"])
	assert.Equal(t, model.StatusCancelled, args["status_1"])
}

func TestAvailability_IsAvailable(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		err     error
		want    bool
		wantErr bool
	}{
		{name: "no overlapping booking", count: 0, want: true},
		{name: "overlapping booking", count: 1, want: false},
		{name: "repository failure", err: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := bookingMocks.NewMockBooking(ctrl)

			requested := dateRange("2024-01-05", "2024-01-07")
			repo.EXPECT().Count(gomock.Any(), service.OverlapFilter("l-1", requested)).Return(tt.count, tt.err)

			availability := service.NewAvailability(repo, &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

			got, err := availability.IsAvailable(context.Background(), "l-1", requested)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailability_ListBusyDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := bookingMocks.NewMockBooking(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), "booking:busy:l-1:2024-02", gomock.Any()).Return(errors.New("miss"))
	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), service.OverlapFilter("l-1", dateRange("2024-02-01", "2024-02-29")), gomock.Any(), gomock.Any()).
		Return([]model.Booking{
			{FromDate: date("2024-01-30"), ToDate: date("2024-02-02")},
			{FromDate: date("2024-02-14"), ToDate: date("2024-02-14")},
			{FromDate: date("2024-02-01"), ToDate: date("2024-02-01")},
			{FromDate: date("2024-02-28"), ToDate: date("2024-03-02")},
		}, nil)

	availability := service.NewAvailability(repo, &config.Config{}, cache, mocks.NewOtel())

	got, err := availability.ListBusyDates(context.Background(), "l-1", date("2024-02-10"))

	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-02-01", "2024-02-02", "2024-02-14", "2024-02-28", "2024-02-29"}, got)
}

func TestBusyDates(t *testing.T) {
	tests := []struct {
		name     string
		bookings []model.Booking
		want     []string
	}{
		{name: "no bookings", want: []string{}},
		{
			name: "hourly booking blocks its day",
			bookings: []model.Booking{
				{BookingType: model.TypeHourly, FromDate: date("2024-04-10"), ToDate: date("2024-04-10")},
			},
			want: []string{"2024-04-10"},
		},
		{
			name: "outside the window",
			bookings: []model.Booking{
				{FromDate: date("2024-05-01"), ToDate: date("2024-05-03")},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.BusyDates(tt.bookings, model.MonthRange(date("2024-04-01"))))
		})
	}
}
