package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rental/shared/constant"
	"rental/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldBookingNumber  = "booking_number"
	FieldListingID      = "listing_id"
	FieldRenteeID       = "rentee_id"
	FieldRenterID       = "renter_id"
	FieldBookingType    = "booking_type"
	FieldFromDate       = "from_date"
	FieldToDate         = "to_date"
	FieldHours          = "hours"
	FieldTotalBill      = "total_bill"
	FieldCurrencyCode   = "currency_code"
	FieldCurrencySymbol = "currency_symbol"
	FieldStatus         = "status"
	FieldPaymentStatus  = "payment_status"
	FieldPaymentID      = "payment_id"
	FieldTransactionID  = "transaction_id"
	FieldPaidAmount     = "paid_amount"
	FieldSnapshot       = "listing_snapshot"
	FieldPickup         = "pickup"
	FieldDropoff        = "dropoff"
)

const (
	TypeHourly = "hourly"
	TypeDaily  = "daily"
)

const (
	StatusPendingConfirm = "pendingConfirm"
	StatusBooked         = "booked"
	StatusPicked         = "picked"
	StatusReturned       = "returned"
	StatusRejected       = "rejected"
	StatusCancelled      = "cancelled"
	StatusDeleted        = "deleted"
	StatusLost           = "lost"
	StatusOther          = "other"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRejected = "rejected"
	PaymentStatusUnknown  = "unknown"
)

const (
	CacheGet    = "booking:get"
	CacheGetAll = "booking:gets"
	CacheCount  = "booking:count"
	CacheBusy   = "booking:busy"
)

// ReleasedStatuses no longer hold the listing's dates.
var ReleasedStatuses = []string{StatusRejected, StatusCancelled}

// ActiveStatuses keep the listing marked as booked.
var ActiveStatuses = []string{StatusPendingConfirm, StatusBooked, StatusPicked}

var ErrInvalidJSONColumn = errors.New("unsupported json column value")

type Booking struct {
	ID             string              `db:"id"`
	BookingNumber  string              `db:"booking_number"`
	ListingID      string              `db:"listing_id"`
	RenteeID       string              `db:"rentee_id"`
	RenterID       string              `db:"renter_id"`
	BookingType    string              `db:"booking_type"`
	FromDate       time.Time           `db:"from_date"`
	ToDate         time.Time           `db:"to_date"`
	Hours          *int                `db:"hours"`
	TotalBill      decimal.Decimal     `db:"total_bill"`
	CurrencyCode   string              `db:"currency_code"`
	CurrencySymbol string              `db:"currency_symbol"`
	Status         string              `db:"status"`
	PaymentStatus  string              `db:"payment_status"`
	PaymentID      *string             `db:"payment_id"`
	TransactionID  *string             `db:"transaction_id"`
	PaidAmount     decimal.NullDecimal `db:"paid_amount"`
	Snapshot       ListingSnapshot     `db:"listing_snapshot"`
	Pickup         *Handover           `db:"pickup"`
	Dropoff        *Handover           `db:"dropoff"`
	model.Metadata
}

func (b Booking) IsParty(userID string) bool {
	return userID != constant.Empty && (b.RenteeID == userID || b.RenterID == userID)
}

func (b Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// HoldsDates reports whether the booking still blocks its date range.
func (b Booking) HoldsDates() bool {
	for _, status := range ReleasedStatuses {
		if b.Status == status {
			return false
		}
	}

	return true
}

func (b Booking) Range() DateRange {
	return DateRange{From: b.FromDate, To: b.ToDate}
}

// ListingSnapshot freezes the listing terms the booking was priced with.
type ListingSnapshot struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	Title          string          `json:"title"`
	Description    *string         `json:"description,omitempty"`
	RentPerHour    decimal.Decimal `json:"rent_per_hour"`
	RentPerDay     decimal.Decimal `json:"rent_per_day"`
	CurrencyCode   string          `json:"currency_code"`
	InstantBooking bool            `json:"instant_booking"`
	Image          *string         `json:"image,omitempty"`
}

func (s ListingSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ListingSnapshot) Scan(src any) error {
	return scanJSON(src, s)
}

// Handover records one physical hand-over of the item.
type Handover struct {
	By     string    `json:"by"`
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
	Images []string  `json:"images,omitempty"`
}

func (h Handover) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *Handover) Scan(src any) error {
	return scanJSON(src, h)
}

func scanJSON(src, dest any) error {
	switch value := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(value, dest)
	case string:
		return json.Unmarshal([]byte(value), dest)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidJSONColumn, src)
	}
}

var SortableFields = []string{constant.FieldCreatedAt, FieldFromDate, FieldToDate, FieldTotalBill, FieldStatus}
