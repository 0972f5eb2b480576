package dto

import (
	"mime/multipart"

	"rental/internal/domains/listing/model"
	"rental/shared"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	gModel "rental/shared/model"
	"rental/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateListingRequest struct {
	Title          string                `json:"title"           validate:"required,max=150"`
	Description    *string               `json:"description"     validate:"omitempty,max=2000"`
	RentPerHour    string                `json:"rent_per_hour"   validate:"required_without=RentPerDay,omitempty,money"`
	RentPerDay     string                `json:"rent_per_day"    validate:"required_without=RentPerHour,omitempty,money"`
	CurrencyCode   string                `json:"currency_code"   validate:"omitempty,currency"`
	InstantBooking bool                  `json:"instant_booking"`
	Image          *multipart.FileHeader `json:"image"           validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFile      multipart.File        `json:"-"`
}

// ToModel expects a validated request; currency falls back to the owner's.
func (c *CreateListingRequest) ToModel(owner shared.Identity, imageURL string) model.Listing {
	currency := c.CurrencyCode
	if currency == constant.Empty {
		currency = owner.CurrencyCode
	}

	if currency == constant.Empty {
		currency = constant.DefaultCurrencyCode
	}

	var image *string
	if imageURL != constant.Empty {
		image = &imageURL
	}

	now := timezone.Now()

	return model.Listing{
		ID:             uuid.NewString(),
		OwnerID:        owner.ID,
		Title:          c.Title,
		Description:    c.Description,
		RentPerHour:    parseMoney(c.RentPerHour),
		RentPerDay:     parseMoney(c.RentPerDay),
		CurrencyCode:   currency,
		Status:         model.StatusAvailable,
		InstantBooking: c.InstantBooking,
		Image:          image,
		Metadata: gModel.NewMetadata(now, owner.ID),
	}
}

func parseMoney(value string) decimal.Decimal {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}

	return amount
}

type UpdateListingRequest struct {
	Title          *string               `db:"title"           json:"title"           validate:"omitempty,max=150"`
	Description    *string               `db:"description"     json:"description"     validate:"omitempty,max=2000"`
	RentPerHour    *string               `db:"rent_per_hour"   json:"rent_per_hour"   validate:"omitempty,money"`
	RentPerDay     *string               `db:"rent_per_day"    json:"rent_per_day"    validate:"omitempty,money"`
	CurrencyCode   *string               `db:"currency_code"   json:"currency_code"   validate:"omitempty,currency"`
	InstantBooking *bool                 `db:"instant_booking" json:"instant_booking"`
	Image          *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFile      multipart.File        `json:"-"`
}

func (u *UpdateListingRequest) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.RentPerHour == nil && u.RentPerDay == nil &&
		u.CurrencyCode == nil && u.InstantBooking == nil && u.Image == nil
}

type ListingResponse struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	Title          string          `json:"title"`
	Description    *string         `json:"description,omitempty"`
	RentPerHour    decimal.Decimal `json:"rent_per_hour"`
	RentPerDay     decimal.Decimal `json:"rent_per_day"`
	CurrencyCode   string          `json:"currency_code"`
	CurrencySymbol string          `json:"currency_symbol"`
	Status         string          `json:"status"`
	InstantBooking bool            `json:"instant_booking"`
	Image          *string         `json:"image,omitempty"`
	gDto.Metadata
}

func (r *ListingResponse) FromModel(model model.Listing) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Title = model.Title
	r.Description = model.Description
	r.RentPerHour = model.RentPerHour
	r.RentPerDay = model.RentPerDay
	r.CurrencyCode = model.CurrencyCode
	r.CurrencySymbol = model.CurrencySymbol()
	r.Status = model.Status
	r.InstantBooking = model.InstantBooking
	r.Image = model.Image
	r.Metadata.FromModel(model.Metadata)
}

type GetListingsResponse struct {
	Listings  []ListingResponse `json:"listings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetListingsResponse) FromModels(models []model.Listing, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Listings = make([]ListingResponse, len(models))
	for i, mod := range models {
		r.Listings[i].FromModel(mod)
	}
}
