package validator_test

import (
	"mime/multipart"
	"net/textproto"
	"rental/shared/failure"
	"rental/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type bookingRequest struct {
	ListingID       string `json:"listing_id"        validate:"required"`
	BookingType     string `json:"booking_type"      validate:"required,oneof=hourly daily"`
	FromDate        string `json:"from_date"         validate:"required,dateonly"`
	ToDate          string `json:"to_date"           validate:"required_if=BookingType daily,omitempty,dateonly"`
	Hours           int    `json:"hours"             validate:"required_if=BookingType hourly,omitempty,min=1,max=24"`
	PaymentMethodID string `json:"payment_method_id" validate:"omitempty,paymentmethod"`
	Currency        string `json:"currency"          validate:"omitempty,currency"`
	Rate            string `json:"rate"              validate:"omitempty,money"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		data    bookingRequest
		wantErr string
	}{
		{
			name: "valid hourly",
			data: bookingRequest{ListingID: "l-1", BookingType: "hourly", FromDate: "2024-01-01", Hours: 3, PaymentMethodID: "pm_1PqX2a"},
		},
		{
			name: "valid daily",
			data: bookingRequest{ListingID: "l-1", BookingType: "daily", FromDate: "2024-01-01", ToDate: "2024-01-03", Currency: "USD"},
		},
		{
			name:    "hourly without hours",
			data:    bookingRequest{ListingID: "l-1", BookingType: "hourly", FromDate: "2024-01-01"},
			wantErr: "hours is required",
		},
		{
			name:    "daily without to_date",
			data:    bookingRequest{ListingID: "l-1", BookingType: "daily", FromDate: "2024-01-01"},
			wantErr: "to_date is required",
		},
		{
			name:    "malformed payment method",
			data:    bookingRequest{ListingID: "l-1", BookingType: "hourly", FromDate: "2024-01-01", Hours: 1, PaymentMethodID: "card_123"},
			wantErr: "payment_method_id must be a valid payment method id",
		},
		{
			name:    "bad date",
			data:    bookingRequest{ListingID: "l-1", BookingType: "hourly", FromDate: "01/02/2024", Hours: 1},
			wantErr: "from_date must be a date formatted as YYYY-MM-DD",
		},
		{
			name:    "unsupported currency",
			data:    bookingRequest{ListingID: "l-1", BookingType: "hourly", FromDate: "2024-01-01", Hours: 1, Currency: "XYZ"},
			wantErr: "currency must be a supported currency code",
		},
		{
			name: "valid rate",
			data: bookingRequest{ListingID: "l-1", BookingType: "hourly", FromDate: "2024-01-01", Hours: 1, Rate: "12.50"},
		},
		{
			name:    "rate with three decimals",
			data:    bookingRequest{ListingID: "l-1", BookingType: "hourly", FromDate: "2024-01-01", Hours: 1, Rate: "12.505"},
			wantErr: "rate must be a non-negative amount with at most two decimals",
		},
		{
			name:    "negative rate",
			data:    bookingRequest{ListingID: "l-1", BookingType: "hourly", FromDate: "2024-01-01", Hours: 1, Rate: "-1"},
			wantErr: "rate must be a non-negative amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.data)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.Error(t, err)
			assert.True(t, failure.IsKind(err, failure.KindValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateStruct_EnumeratesEveryField(t *testing.T) {
	err := validator.ValidateStruct(&bookingRequest{BookingType: "weekly"})

	assert.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "listing_id is required")
	assert.Contains(t, msg, "booking_type must be one of hourly daily")
	assert.Contains(t, msg, "from_date is required")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2024-02", "month"))
	assert.Error(t, validator.ValidateVar("2024-13", "month"))
	assert.NoError(t, validator.ValidateVar("pm_card123", "paymentmethod"))
	assert.Error(t, validator.ValidateVar("pm_", "paymentmethod"))
	assert.NoError(t, validator.ValidateVar("ana@example.com", "email"))
	assert.Error(t, validator.ValidateVar("ana", "email"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid body",
			body: `{"listing_id":"l-1","booking_type":"hourly","from_date":"2024-01-01","hours":3}`,
		},
		{
			name:    "malformed json",
			body:    `{"listing_id":`,
			wantErr: true,
		},
		{
			name:    "empty object",
			body:    `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data bookingRequest

			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type photoRequest struct {
	Images []*multipart.FileHeader `json:"images" validate:"max=2,dive,mimetypes=image/png image/jpeg,maxfilesize=1"`
}

func photo(contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "handover.png",
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
		Size:     size,
	}
}

func TestValidateStruct_Photos(t *testing.T) {
	tests := []struct {
		name    string
		images  []*multipart.FileHeader
		wantErr bool
	}{
		{name: "no photos", images: nil},
		{name: "png and jpeg", images: []*multipart.FileHeader{photo("image/png", 1024), photo("image/jpeg", 2048)}},
		{name: "pdf rejected", images: []*multipart.FileHeader{photo("application/pdf", 1024)}, wantErr: true},
		{name: "too large", images: []*multipart.FileHeader{photo("image/png", 2*1024*1024)}, wantErr: true},
		{
			name:    "too many",
			images:  []*multipart.FileHeader{photo("image/png", 1), photo("image/png", 1), photo("image/png", 1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&photoRequest{Images: tt.images})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
