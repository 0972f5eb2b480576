package payment

import (
	"net/http"
	"rental/infras/otel"
	"rental/internal/domains/payment/model/dto"
	"rental/internal/domains/payment/service"
	"rental/shared"
	"rental/shared/constant"
	"rental/shared/failure"
	"rental/shared/validator"
	"rental/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/merchant-account", handler.CreateMerchantAccount)
		routerGroup.Get("/merchant-account", handler.GetMerchantAccount)
		routerGroup.Get("/methods", handler.GetPaymentMethods)
		routerGroup.Post("/methods", handler.AttachPaymentMethod)
		routerGroup.Delete("/methods/{id}", handler.DetachPaymentMethod)
		routerGroup.Put("/methods/{id}/default", handler.SetDefaultPaymentMethod)
	})
}

// CreateMerchantAccount starts payout onboarding for the caller.
// @Summary Create a merchant account
// @Description Creates the caller's connected account when missing and returns a fresh onboarding link.
// @Tags Payment
// @Produce json
// @Success 201 {object} response.Data[dto.MerchantAccountResponse] "Merchant account"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/merchant-account [post]
// @Security BearerAuth
func (handler *Handler) CreateMerchantAccount(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMerchantAccount")
	defer scope.End()

	res, err := handler.service.CreateMerchantAccount(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create merchant account")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Merchant account " + res.AccountID + " onboarding started")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetMerchantAccount reports the caller's payout account.
// @Summary Get my merchant account
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Data[dto.MerchantAccountResponse] "Merchant account"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/merchant-account [get]
// @Security BearerAuth
func (handler *Handler) GetMerchantAccount(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMerchantAccount")
	defer scope.End()

	res, err := handler.service.GetMerchantAccount(ctx, shared.IdentityFromContext(ctx).ID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get merchant account")

		response.WithError(writer, err)

		return
	}

	if res == nil {
		response.WithError(writer, failure.NotFound("merchant account not found"))

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetPaymentMethods lists the caller's saved cards.
// @Summary Get my payment methods
// @Tags Payment
// @Produce json
// @Success 200 {object} response.Data[[]dto.PaymentMethodResponse] "Payment methods"
// @Failure 500 {object} response.Error
// @Router /v1/payments/methods [get]
// @Security BearerAuth
func (handler *Handler) GetPaymentMethods(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPaymentMethods")
	defer scope.End()

	res, err := handler.service.ListPaymentMethods(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list payment methods")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// AttachPaymentMethod saves a tokenized card for the caller.
// @Summary Attach a payment method
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body dto.AttachPaymentMethodRequest true "Attach Payment Method Request"
// @Success 201 {object} response.Message "Payment method attached successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/methods [post]
// @Security BearerAuth
func (handler *Handler) AttachPaymentMethod(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AttachPaymentMethod")
	defer scope.End()

	req := dto.AttachPaymentMethodRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.AttachPaymentMethod(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to attach payment method")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "Payment method attached successfully")
}

// DetachPaymentMethod removes a saved card.
// @Summary Detach a payment method
// @Tags Payment
// @Produce json
// @Param id path string true "Payment method ID"
// @Success 200 {object} response.Message "Payment method detached successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/methods/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DetachPaymentMethod(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DetachPaymentMethod")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := validator.ValidateVar(id, "paymentmethod"); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	if err := handler.service.DetachPaymentMethod(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to detach payment method")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Payment method detached successfully")
}

// SetDefaultPaymentMethod picks the card used when none is given.
// @Summary Set the default payment method
// @Tags Payment
// @Produce json
// @Param id path string true "Payment method ID"
// @Success 200 {object} response.Message "Default payment method updated"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/payments/methods/{id}/default [put]
// @Security BearerAuth
func (handler *Handler) SetDefaultPaymentMethod(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetDefaultPaymentMethod")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := validator.ValidateVar(id, "paymentmethod"); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	if err := handler.service.SetDefaultPaymentMethod(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set default payment method")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Default payment method updated")
}
