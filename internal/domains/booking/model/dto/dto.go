package dto

import (
	"mime/multipart"
	"strings"
	"time"

	"rental/internal/domains/booking/model"
	listingModel "rental/internal/domains/listing/model"
	"rental/shared"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	gModel "rental/shared/model"
	"rental/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const bookingNumberLength = 8

type CreateBookingRequest struct {
	ListingID       string `json:"listing_id"        validate:"required,uuid"`
	BookingType     string `json:"booking_type"      validate:"required,oneof=hourly daily"`
	FromDate        string `json:"from_date"         validate:"required,dateonly"`
	ToDate          string `json:"to_date"           validate:"required_if=BookingType daily,omitempty,dateonly"`
	Hours           int    `json:"hours"             validate:"required_if=BookingType hourly,omitempty,min=1,max=24"`
	PaymentMethodID string `json:"payment_method_id" validate:"omitempty,paymentmethod"`
}

// Range resolves the requested days. Hourly bookings occupy their whole day.
func (c *CreateBookingRequest) Range() (model.DateRange, error) {
	from, err := time.Parse(constant.DateOnlyFormat, c.FromDate)
	if err != nil {
		return model.DateRange{}, err
	}

	if c.BookingType == model.TypeHourly {
		return model.NewDateRange(from, from)
	}

	to, err := time.Parse(constant.DateOnlyFormat, c.ToDate)
	if err != nil {
		return model.DateRange{}, err
	}

	return model.NewDateRange(from, to)
}

func (c *CreateBookingRequest) ToModel(id string, rentee shared.Identity, listing listingModel.Listing, dates model.DateRange, bill decimal.Decimal) model.Booking {
	now := timezone.Now()

	status := model.StatusPendingConfirm
	if listing.InstantBooking {
		status = model.StatusBooked
	}

	var hours *int
	if c.BookingType == model.TypeHourly {
		h := c.Hours
		hours = &h
	}

	return model.Booking{
		ID:             id,
		BookingNumber:  NewBookingNumber(),
		ListingID:      listing.ID,
		RenteeID:       rentee.ID,
		RenterID:       listing.OwnerID,
		BookingType:    c.BookingType,
		FromDate:       dates.From,
		ToDate:         dates.To,
		Hours:          hours,
		TotalBill:      bill,
		CurrencyCode:   listing.CurrencyCode,
		CurrencySymbol: listing.CurrencySymbol(),
		Status:         status,
		PaymentStatus:  model.PaymentStatusPending,
		Snapshot: model.ListingSnapshot{
			ID:             listing.ID,
			OwnerID:        listing.OwnerID,
			Title:          listing.Title,
			Description:    listing.Description,
			RentPerHour:    listing.RentPerHour,
			RentPerDay:     listing.RentPerDay,
			CurrencyCode:   listing.CurrencyCode,
			InstantBooking: listing.InstantBooking,
			Image:          listing.Image,
		},
		Metadata: gModel.NewMetadata(now, rentee.ID),
	}
}

// NewBookingNumber returns a short advisory code; uniqueness is not enforced.
func NewBookingNumber() string {
	return "BK" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:bookingNumberLength])
}

type PayBookingRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required,paymentmethod"`
}

// HandoverRequest is the multipart body of pickup and dropoff. ImageFiles
// holds the opened Images, in the same order.
type HandoverRequest struct {
	Note       string                  `json:"note"   validate:"omitempty,max=1000"`
	Images     []*multipart.FileHeader `json:"images" validate:"max=5,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
	ImageFiles []multipart.File        `json:"-"`
}

func (h *HandoverRequest) Close() {
	for _, file := range h.ImageFiles {
		if file != nil {
			_ = file.Close()
		}
	}
}

type AvailabilityResponse struct {
	ListingID string `json:"listing_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Available bool   `json:"available"`
}

type BusyDatesResponse struct {
	ListingID string   `json:"listing_id"`
	Month     string   `json:"month"`
	BusyDates []string `json:"busy_dates"`
}

type HandoverResponse struct {
	By     string   `json:"by"`
	At     string   `json:"at"`
	Note   string   `json:"note,omitempty"`
	Images []string `json:"images,omitempty"`
}

func handoverResponse(h *model.Handover) *HandoverResponse {
	if h == nil {
		return nil
	}

	return &HandoverResponse{
		By:     h.By,
		At:     h.At.Format(constant.DateFormat),
		Note:   h.Note,
		Images: h.Images,
	}
}

type BookingResponse struct {
	ID             string                `json:"id"`
	BookingNumber  string                `json:"booking_number"`
	ListingID      string                `json:"listing_id"`
	RenteeID       string                `json:"rentee_id"`
	RenterID       string                `json:"renter_id"`
	BookingType    string                `json:"booking_type"`
	FromDate       string                `json:"from_date"`
	ToDate         string                `json:"to_date"`
	Hours          *int                  `json:"hours,omitempty"`
	TotalBill      decimal.Decimal       `json:"total_bill"`
	CurrencyCode   string                `json:"currency_code"`
	CurrencySymbol string                `json:"currency_symbol"`
	Status         string                `json:"status"`
	PaymentStatus  string                `json:"payment_status"`
	PaymentID      *string               `json:"payment_id,omitempty"`
	TransactionID  *string               `json:"transaction_id,omitempty"`
	PaidAmount     *decimal.Decimal      `json:"paid_amount,omitempty"`
	Listing        model.ListingSnapshot `json:"listing"`
	Pickup         *HandoverResponse     `json:"pickup,omitempty"`
	Dropoff        *HandoverResponse     `json:"dropoff,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.BookingNumber = booking.BookingNumber
	r.ListingID = booking.ListingID
	r.RenteeID = booking.RenteeID
	r.RenterID = booking.RenterID
	r.BookingType = booking.BookingType
	r.FromDate = booking.FromDate.Format(constant.DateOnlyFormat)
	r.ToDate = booking.ToDate.Format(constant.DateOnlyFormat)
	r.Hours = booking.Hours
	r.TotalBill = booking.TotalBill
	r.CurrencyCode = booking.CurrencyCode
	r.CurrencySymbol = booking.CurrencySymbol
	r.Status = booking.Status
	r.PaymentStatus = booking.PaymentStatus
	r.PaymentID = booking.PaymentID
	r.TransactionID = booking.TransactionID
	r.Listing = booking.Snapshot
	r.Pickup = handoverResponse(booking.Pickup)
	r.Dropoff = handoverResponse(booking.Dropoff)
	r.Metadata.FromModel(booking.Metadata)

	if booking.PaidAmount.Valid {
		paid := booking.PaidAmount.Decimal
		r.PaidAmount = &paid
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type BusyDatesRequest struct {
	ListingID string `json:"listing_id" validate:"required,uuid"`
	Month     string `json:"month"      validate:"omitempty,month"`
}

// MonthStart defaults to the current month.
func (b *BusyDatesRequest) MonthStart() (time.Time, error) {
	if b.Month == "" {
		return timezone.Today(), nil
	}

	return time.Parse(constant.MonthFormat, b.Month)
}

type AvailabilityRequest struct {
	ListingID string `json:"listing_id" validate:"required,uuid"`
	From      string `json:"from"       validate:"required,dateonly"`
	To        string `json:"to"         validate:"required,dateonly"`
}

func (a *AvailabilityRequest) Range() (model.DateRange, error) {
	from, err := time.Parse(constant.DateOnlyFormat, a.From)
	if err != nil {
		return model.DateRange{}, err
	}

	to, err := time.Parse(constant.DateOnlyFormat, a.To)
	if err != nil {
		return model.DateRange{}, err
	}

	return model.NewDateRange(from, to)
}

type GetBookingsRequest struct {
	Role   string `json:"role"   validate:"omitempty,oneof=rentee renter"`
	Status string `json:"status" validate:"omitempty,oneof=pendingConfirm booked picked returned rejected cancelled deleted lost other"`
}
