package model

import (
	"rental/shared/constant"
	"rental/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "listings"
	EntityName = "listing"

	FieldID             = "id"
	FieldOwnerID        = "owner_id"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldRentPerHour    = "rent_per_hour"
	FieldRentPerDay     = "rent_per_day"
	FieldCurrencyCode   = "currency_code"
	FieldStatus         = "status"
	FieldInstantBooking = "instant_booking"
	FieldImage          = "image"
)

const (
	StatusAvailable = "available"
	StatusBooked    = "booked"
	StatusDeleted   = "deleted"
)

// Cache key prefixes, shared with the booking service which flips the status.
const (
	CacheGet    = "listing:get"
	CacheGetAll = "listing:gets"
	CacheCount  = "listing:count"
)

type Listing struct {
	ID             string          `db:"id"`
	OwnerID        string          `db:"owner_id"`
	Title          string          `db:"title"`
	Description    *string         `db:"description"`
	RentPerHour    decimal.Decimal `db:"rent_per_hour"`
	RentPerDay     decimal.Decimal `db:"rent_per_day"`
	CurrencyCode   string          `db:"currency_code"`
	Status         string          `db:"status"`
	InstantBooking bool            `db:"instant_booking"`
	Image          *string         `db:"image"`
	model.Metadata
}

func (l Listing) CurrencySymbol() string {
	if symbol, ok := constant.CurrencySymbols[l.CurrencyCode]; ok {
		return symbol
	}

	return l.CurrencyCode
}

func (l Listing) IsDeleted() bool {
	return l.Status == StatusDeleted
}

var SortableFields = []string{constant.FieldCreatedAt, FieldTitle, FieldRentPerHour, FieldRentPerDay}
