package booking

import (
	"context"
	"mime/multipart"
	"net/http"
	"rental/infras/otel"
	"rental/internal/domains/booking/model"
	"rental/internal/domains/booking/model/dto"
	"rental/internal/domains/booking/service"
	"rental/shared"
	"rental/shared/constant"
	gDto "rental/shared/dto"
	"rental/shared/failure"
	"rental/shared/validator"
	"rental/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

const (
	formFieldNote   = "note"
	formFieldImages = "images"
)

type Handler struct {
	service      service.Booking
	availability service.Availability
	otel         otel.Otel
}

func New(service service.Booking, availability service.Availability, otel otel.Otel) Handler {
	return Handler{
		service:      service,
		availability: availability,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/availability/{listingId}", handler.GetBusyDates)
		routerGroup.Get("/availability/{listingId}/check", handler.CheckAvailability)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Put("/{id}/approve", handler.ApproveBooking)
		routerGroup.Put("/{id}/reject", handler.RejectBooking)
		routerGroup.Put("/{id}/cancel", handler.CancelBooking)
		routerGroup.Put("/{id}/paid", handler.PayBooking)
		routerGroup.Put("/{id}/pickup", handler.PickupBooking)
		routerGroup.Put("/{id}/dropoff", handler.DropoffBooking)
		routerGroup.Delete("/{id}", handler.DeleteBooking)
	})
}

// CreateBooking requests a listing for a date range.
// @Summary Create a new booking
// @Description Book a listing hourly or daily. With a payment method the bill is authorized and held until pickup.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + res.ID + " created by user " + shared.IdentityFromContext(ctx).ID)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetBookings lists the caller's bookings.
// @Summary Get my bookings
// @Description List bookings where the caller is the rentee or the renter.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param role query string false "rentee or renter"
// @Param status query string false "Filter by booking status"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSort(model.SortableFields...)

	req := dto.GetBookingsRequest{
		Role:   request.URL.Query().Get(constant.RequestParamRole),
		Status: request.URL.Query().Get(constant.RequestParamStatus),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.GetAll(ctx, queryParams, req.Role, req.Status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(writer, http.StatusOK, res)
}

// GetBookingByID retrieves one booking of the caller.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(writer, http.StatusOK, res)
}

// ApproveBooking confirms a pending request.
// @Summary Approve a booking
// @Description The listing owner confirms a pending booking.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking approved"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/approve [put]
// @Security BearerAuth
func (handler *Handler) ApproveBooking(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, "ApproveBooking", handler.service.Approve)
}

// RejectBooking declines a pending request and releases its hold.
// @Summary Reject a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking rejected"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/reject [put]
// @Security BearerAuth
func (handler *Handler) RejectBooking(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, "RejectBooking", handler.service.Reject)
}

// CancelBooking withdraws a booking before payment.
// @Summary Cancel a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking cancelled"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [put]
// @Security BearerAuth
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	handler.transition(writer, request, "CancelBooking", handler.service.Cancel)
}

// PayBooking charges the booking directly with a new payment method.
// @Summary Pay a booking
// @Description Authorizes the bill with the given payment method and captures it at once.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.PayBookingRequest true "Pay Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking paid"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/paid [put]
// @Security BearerAuth
func (handler *Handler) PayBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PayBooking")
	defer scope.End()

	req := dto.PayBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Pay(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to pay booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + res.ID + " paid")

	response.WithJSON(writer, http.StatusOK, res)
}

// PickupBooking records the handover to the rentee and captures the held payment.
// @Summary Pick up a booking
// @Tags Booking
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Booking ID"
// @Param note formData string false "Handover note"
// @Param images formData file false "Handover photos"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking picked up"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/pickup [put]
// @Security BearerAuth
func (handler *Handler) PickupBooking(writer http.ResponseWriter, request *http.Request) {
	handler.handover(writer, request, "PickupBooking", handler.service.Pickup)
}

// DropoffBooking records the return of the item.
// @Summary Drop off a booking
// @Tags Booking
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Booking ID"
// @Param note formData string false "Handover note"
// @Param images formData file false "Handover photos"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking returned"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/dropoff [put]
// @Security BearerAuth
func (handler *Handler) DropoffBooking(writer http.ResponseWriter, request *http.Request) {
	handler.handover(writer, request, "DropoffBooking", handler.service.Dropoff)
}

// DeleteBooking removes a booking from the caller's history.
// @Summary Delete a booking
// @Description Unpaid bookings are removed and their hold released, paid ones are kept with status deleted.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + id + " deleted")

	response.WithMessage(writer, http.StatusOK, "Booking deleted successfully")
}

// GetBusyDates lists the days of a month a listing cannot be booked.
// @Summary Get busy dates of a listing
// @Tags Booking
// @Produce json
// @Param listingId path string true "Listing ID"
// @Param month query string false "Month as YYYY-MM, defaults to the current month"
// @Success 200 {object} response.Data[dto.BusyDatesResponse] "Busy dates"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/availability/{listingId} [get]
func (handler *Handler) GetBusyDates(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBusyDates")
	defer scope.End()

	req := dto.BusyDatesRequest{
		ListingID: chi.URLParam(request, constant.RequestParamListingID),
		Month:     request.URL.Query().Get(constant.RequestParamMonth),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query")

		response.WithError(writer, err)

		return
	}

	month, err := req.MonthStart()
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, failure.BadRequest(err))

		return
	}

	dates, err := handler.availability.ListBusyDates(ctx, req.ListingID, month)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list busy dates")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, dto.BusyDatesResponse{
		ListingID: req.ListingID,
		Month:     req.Month,
		BusyDates: dates,
	})
}

// CheckAvailability reports whether a range is free.
// @Summary Check a listing's availability
// @Tags Booking
// @Produce json
// @Param listingId path string true "Listing ID"
// @Param from query string true "First day, YYYY-MM-DD"
// @Param to query string true "Last day, YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Availability"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/availability/{listingId}/check [get]
func (handler *Handler) CheckAvailability(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	req := dto.AvailabilityRequest{
		ListingID: chi.URLParam(request, constant.RequestParamListingID),
		From:      request.URL.Query().Get(constant.RequestParamFrom),
		To:        request.URL.Query().Get(constant.RequestParamTo),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query")

		response.WithError(writer, err)

		return
	}

	dates, err := req.Range()
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, failure.BadRequest(err))

		return
	}

	available, err := handler.availability.IsAvailable(ctx, req.ListingID, dates)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, dto.AvailabilityResponse{
		ListingID: req.ListingID,
		From:      req.From,
		To:        req.To,
		Available: available,
	})
}

type transitionFunc func(ctx context.Context, id string) (dto.BookingResponse, error)

type handoverFunc func(ctx context.Context, id string, req dto.HandoverRequest) (dto.BookingResponse, error)

func (handler *Handler) transition(writer http.ResponseWriter, request *http.Request, name string, fn transitionFunc) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	res, err := fn(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("action", name).Msg("failed to transition booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + res.ID + " is now " + res.Status)

	response.WithJSON(writer, http.StatusOK, res)
}

func (handler *Handler) handover(writer http.ResponseWriter, request *http.Request, name string, fn handoverFunc) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	req, err := parseHandover(request)
	defer req.Close()

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(writer, failure.BadRequest(err))

		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	res, err := fn(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("action", name).Msg("failed to record handover")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + res.ID + " is now " + res.Status)

	response.WithJSON(writer, http.StatusOK, res)
}

// parseHandover accepts an empty body as a handover without note or photos.
func parseHandover(request *http.Request) (dto.HandoverRequest, error) {
	req := dto.HandoverRequest{}

	if request.ContentLength == 0 {
		return req, nil
	}

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return req, err
	}

	req.Note = request.FormValue(formFieldNote)

	var headers []*multipart.FileHeader
	if request.MultipartForm != nil {
		headers = request.MultipartForm.File[formFieldImages]
	}

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return req, err
		}

		req.Images = append(req.Images, header)
		req.ImageFiles = append(req.ImageFiles, file)
	}

	return req, nil
}
