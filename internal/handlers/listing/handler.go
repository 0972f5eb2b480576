package listing

import (
	"net/http"
	"rental/infras/otel"
	"rental/internal/domains/listing/model"
	"rental/internal/domains/listing/model/dto"
	"rental/internal/domains/listing/service"
	"rental/shared"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/validator"
	"rental/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	formFieldImage = "image"
)

type Handler struct {
	service service.Listing
	otel    otel.Otel
}

func New(service service.Listing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/listings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateListing)
		routerGroup.Get("/", handler.GetListings)
		routerGroup.Get("/{id}", handler.GetListingByID)
		routerGroup.Patch("/{id}", handler.UpdateListing)
		routerGroup.Delete("/{id}", handler.DeleteListing)
	})
}

// CreateListing publishes a new item for rent.
// @Summary Create a new listing
// @Description Create a listing with an hourly and/or daily rate and an optional cover image.
// @Tags Listing
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param rent_per_hour formData string false "Hourly rate"
// @Param rent_per_day formData string false "Daily rate"
// @Param currency_code formData string false "Currency code, defaults to the owner's"
// @Param instant_booking formData boolean false "Confirm bookings without approval"
// @Param image formData file false "Cover image"
// @Success 201 {object} response.Data[dto.ListingResponse] "Listing created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [post]
// @Security BearerAuth
func (handler *Handler) CreateListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateListing")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(writer, err)

		return
	}

	req := dto.CreateListingRequest{
		Title:        request.FormValue(model.FieldTitle),
		RentPerHour:  request.FormValue(model.FieldRentPerHour),
		RentPerDay:   request.FormValue(model.FieldRentPerDay),
		CurrencyCode: request.FormValue(model.FieldCurrencyCode),
		Description:  formValue(request, model.FieldDescription),
	}

	if instant := shared.ConvertStringToBool(request.FormValue(model.FieldInstantBooking)); instant != nil {
		req.InstantBooking = *instant
	}

	file, fileHeader, err := request.FormFile(formFieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create listing")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Listing " + res.ID + " created by user " + shared.IdentityFromContext(ctx).ID)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetListings browses listings that are not deleted.
// @Summary Get all listings
// @Tags Listing
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param owner_id query string false "Filter by owner"
// @Param title query string false "Search by title"
// @Param status query string false "available or booked"
// @Success 200 {object} response.Data[dto.GetListingsResponse] "List of listings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings [get]
func (handler *Handler) GetListings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.SortableFields...)

	query := request.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    model.StatusDeleted,
				Table:    model.TableName,
				ArgName:  "deleted_status",
			},
		},
	}

	if owner := query.Get(model.FieldOwnerID); owner != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldOwnerID,
			Operator: gDto.FilterOperatorEq,
			Value:    owner,
			Table:    model.TableName,
		})
	}

	if title := query.Get(model.FieldTitle); title != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTitle,
			Operator: gDto.FilterOperatorLike,
			Value:    title,
			Table:    model.TableName,
		})
	}

	if status := query.Get(model.FieldStatus); status == model.StatusAvailable || status == model.StatusBooked {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listings")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Listings retrieved successfully")

	response.WithJSON(writer, http.StatusOK, res)
}

// GetListingByID retrieves a listing.
// @Summary Get a listing by ID
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[dto.ListingResponse] "Listing details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [get]
func (handler *Handler) GetListingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateListing edits the owner's listing.
// @Summary Update a listing
// @Description Existing bookings keep the rates they were made with.
// @Tags Listing
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Listing ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param rent_per_hour formData string false "Hourly rate"
// @Param rent_per_day formData string false "Daily rate"
// @Param currency_code formData string false "Currency code"
// @Param instant_booking formData boolean false "Confirm bookings without approval"
// @Param image formData file false "Cover image"
// @Success 200 {object} response.Message "Listing updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateListing")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(writer, err)

		return
	}

	req := dto.UpdateListingRequest{
		Title:          formValue(request, model.FieldTitle),
		Description:    formValue(request, model.FieldDescription),
		RentPerHour:    formValue(request, model.FieldRentPerHour),
		RentPerDay:     formValue(request, model.FieldRentPerDay),
		CurrencyCode:   formValue(request, model.FieldCurrencyCode),
		InstantBooking: shared.ConvertStringToBool(request.FormValue(model.FieldInstantBooking)),
	}

	file, fileHeader, err := request.FormFile(formFieldImage)
	if err == nil {
		req.Image = fileHeader
		req.ImageFile = file

		defer file.Close()
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update listing")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Listing " + id + " updated")

	response.WithMessage(writer, http.StatusOK, "Listing updated successfully")
}

// DeleteListing hides the owner's listing from browsing.
// @Summary Delete a listing
// @Tags Listing
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Message "Listing deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/listings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteListing(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteListing")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete listing")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Listing " + id + " deleted")

	response.WithMessage(writer, http.StatusOK, "Listing deleted successfully")
}

func formValue(request *http.Request, key string) *string {
	if _, ok := request.MultipartForm.Value[key]; !ok {
		return nil
	}

	value := request.FormValue(key)

	return &value
}
