package model

import (
	"errors"
	"time"

	"rental/shared/constant"

	"github.com/shopspring/decimal"
)

var (
	ErrRateNotOffered    = errors.New("listing does not offer this booking type")
	ErrBillNotComputable = errors.New("total bill could not be computed")
	ErrInvalidRange      = errors.New("to date must not be before from date")
)

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time
	To   time.Time
}

func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDateRange truncates both ends to whole days.
func NewDateRange(from, to time.Time) (DateRange, error) {
	r := DateRange{From: Day(from), To: Day(to)}
	if r.To.Before(r.From) {
		return r, ErrInvalidRange
	}

	return r, nil
}

// MonthRange covers every day of the month containing t.
func MonthRange(t time.Time) DateRange {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)

	return DateRange{From: first, To: first.AddDate(0, 1, -1)}
}

func (r DateRange) Overlaps(other DateRange) bool {
	return !r.From.After(other.To) && !r.To.Before(other.From)
}

// Days counts both endpoints.
func (r DateRange) Days() int {
	return int(Day(r.To).Sub(Day(r.From)).Hours()/constant.HoursPerDay) + 1
}

// Intersect returns the shared days; ok is false when there are none.
func (r DateRange) Intersect(other DateRange) (res DateRange, ok bool) {
	if !r.Overlaps(other) {
		return res, false
	}

	res.From = r.From
	if other.From.After(res.From) {
		res.From = other.From
	}

	res.To = r.To
	if other.To.Before(res.To) {
		res.To = other.To
	}

	return res, true
}

func (r DateRange) Dates() []time.Time {
	dates := make([]time.Time, 0, r.Days())
	for day := Day(r.From); !day.After(r.To); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day)
	}

	return dates
}

// ComputeBill prices a booking: hours x hourly rate, or inclusive days x daily rate.
func ComputeBill(bookingType string, hours int, r DateRange, rentPerHour, rentPerDay decimal.Decimal) (decimal.Decimal, error) {
	var (
		rate  decimal.Decimal
		units int
	)

	switch bookingType {
	case TypeHourly:
		rate, units = rentPerHour, hours
	case TypeDaily:
		rate, units = rentPerDay, r.Days()
	default:
		return decimal.Zero, ErrBillNotComputable
	}

	if !rate.IsPositive() {
		return decimal.Zero, ErrRateNotOffered
	}

	bill := rate.Mul(decimal.NewFromInt(int64(units))).Round(2)
	if !bill.IsPositive() {
		return decimal.Zero, ErrBillNotComputable
	}

	return bill, nil
}
