package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"rental/config"
	"rental/infras/otel"
	"rental/infras/stripe"
	"rental/internal/domains/payment/model"
	"rental/internal/domains/payment/model/dto"
	"rental/internal/domains/payment/repository"
	"rental/shared"
	"rental/shared/constant"
	"rental/shared/failure"
	"rental/shared/validator"

	"github.com/rs/zerolog/log"
	stripeGo "github.com/stripe/stripe-go/v79"
)

// ErrOutcomeUnknown marks an authorization that timed out while the payment
// intent was being created: the hold may or may not exist on the processor side.
var ErrOutcomeUnknown = errors.New("payment outcome unknown")

type Payment interface {
	Authorize(ctx context.Context, req dto.AuthorizeRequest) (dto.Hold, error)
	// Capture reports false, without an error, when the processor does not end in succeeded.
	Capture(ctx context.Context, holdID, idempotencyKey string) (dto.CaptureResult, bool)
	// Cancel releases a hold. A hold that is already cancelled counts as released.
	Cancel(ctx context.Context, holdID string) (dto.Hold, error)
	// Refund returns a captured hold to the payer.
	Refund(ctx context.Context, holdID string) error
	// GetMerchantAccount returns nil when the owner never started onboarding.
	GetMerchantAccount(ctx context.Context, ownerID string) (*dto.MerchantAccountResponse, error)
	CreateMerchantAccount(ctx context.Context) (dto.MerchantAccountResponse, error)
	ListPaymentMethods(ctx context.Context) ([]dto.PaymentMethodResponse, error)
	AttachPaymentMethod(ctx context.Context, req dto.AttachPaymentMethodRequest) error
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error
	SetDefaultPaymentMethod(ctx context.Context, paymentMethodID string) error
}

type serviceImpl struct {
	repo   repository.MerchantAccount
	stripe stripe.Stripe
	cfg    *config.Config
	otel   otel.Otel
}

func New(repo repository.MerchantAccount, stripe stripe.Stripe, cfg *config.Config, otel otel.Otel) Payment {
	return &serviceImpl{
		repo:   repo,
		stripe: stripe,
		cfg:    cfg,
		otel:   otel,
	}
}

func (s *serviceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(s.cfg.External.Stripe.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

func (s *serviceImpl) Authorize(ctx context.Context, req dto.AuthorizeRequest) (res dto.Hold, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Authorize")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if validator.ValidateVar(req.PaymentMethodID, "required,paymentmethod") != nil {
		return res, failure.PaymentRejected("invalid payment method id")
	}

	amount := model.ToMinorUnits(req.Amount)
	if amount < model.MinimumChargeMinor {
		return res, failure.PaymentRejected("amount is below the minimum chargeable amount")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.customer(ctx, req.PayerEmail, req.PayerName)
	if err != nil {
		return res, err
	}

	if _, err = s.stripe.AttachPaymentMethod(ctx, req.PaymentMethodID, customer.ID); err != nil {
		log.Error().Err(err).Str("customer", customer.ID).Msg("failed to attach payment method")

		return res, processorError(err, "attach payment method")
	}

	intent, err := s.stripe.CreatePaymentIntent(ctx, stripe.PaymentIntentParams{
		Amount:               amount,
		Currency:             req.Currency,
		CustomerID:           customer.ID,
		PaymentMethodID:      req.PaymentMethodID,
		DestinationAccountID: req.DestinationAccountID,
		ApplicationFee:       model.PlatformFee(amount, s.cfg.External.Stripe.PlatformFeePct),
		ManualCapture:        req.CaptureMode != dto.CaptureModeAutomatic,
		IdempotencyKey:       req.IdempotencyKey,
		Description:          req.Description,
		Metadata:             req.Metadata,
	})
	if err != nil {
		log.Error().Err(err).Str("idempotencyKey", req.IdempotencyKey).Msg("failed to authorize payment")

		if timedOut(err) {
			return res, fmt.Errorf("%w: %w", ErrOutcomeUnknown, failure.PaymentError("authorize payment timed out"))
		}

		return res, processorError(err, "authorize payment")
	}

	res.FromIntent(intent)

	switch intent.Status {
	case stripeGo.PaymentIntentStatusRequiresCapture, stripeGo.PaymentIntentStatusSucceeded:
		return res, nil
	}

	log.Warn().Str("intent", intent.ID).Str("status", res.Status).Msg("payment intent not authorized")

	if _, err := s.stripe.CancelPaymentIntent(context.WithoutCancel(ctx), intent.ID); err != nil {
		log.Warn().Err(err).Str("intent", intent.ID).Msg("failed to release unauthorized intent")
	}

	return res, failure.PaymentRejected("payment was not authorized (status: " + res.Status + ")")
}

func (s *serviceImpl) Capture(ctx context.Context, holdID, idempotencyKey string) (res dto.CaptureResult, ok bool) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Capture")
	defer scope.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	intent, err := s.stripe.CapturePaymentIntent(ctx, holdID, idempotencyKey)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("hold", holdID).Msg("failed to capture payment")

		return res, false
	}

	if intent.Status != stripeGo.PaymentIntentStatusSucceeded {
		log.Warn().Str("hold", holdID).Str("status", string(intent.Status)).Msg("capture did not succeed")

		return res, false
	}

	res.FromIntent(intent)

	return res, true
}

func (s *serviceImpl) Cancel(ctx context.Context, holdID string) (res dto.Hold, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	intent, err := s.stripe.CancelPaymentIntent(ctx, holdID)
	if err != nil {
		if released := s.alreadyCancelled(ctx, holdID, err); released != nil {
			log.Warn().Str("hold", holdID).Msg("payment hold was already cancelled")
			res.FromIntent(released)

			return res, nil
		}

		log.Error().Err(err).Str("hold", holdID).Msg("failed to cancel payment hold")

		return res, processorError(err, "cancel payment hold")
	}

	res.FromIntent(intent)

	return res, nil
}

// alreadyCancelled looks the intent up after the processor refused to cancel
// it and returns it when it is cancelled already.
func (s *serviceImpl) alreadyCancelled(ctx context.Context, holdID string, cancelErr error) *stripeGo.PaymentIntent {
	var stripeErr *stripeGo.Error
	if !errors.As(cancelErr, &stripeErr) || stripeErr.Type != stripeGo.ErrorTypeInvalidRequest {
		return nil
	}

	intent, err := s.stripe.GetPaymentIntent(ctx, holdID)
	if err != nil {
		log.Warn().Err(err).Str("hold", holdID).Msg("failed to look up payment hold")

		return nil
	}

	if intent.Status != stripeGo.PaymentIntentStatusCanceled {
		return nil
	}

	return intent
}

func (s *serviceImpl) Refund(ctx context.Context, holdID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Refund")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err = s.stripe.RefundPaymentIntent(ctx, holdID, holdID+":refund"); err != nil {
		log.Error().Err(err).Str("hold", holdID).Msg("failed to refund payment")

		return processorError(err, "refund payment")
	}

	return nil
}

func (s *serviceImpl) GetMerchantAccount(ctx context.Context, ownerID string) (res *dto.MerchantAccountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMerchantAccount")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	account, err := s.repo.Get(ctx, shared.FilterByID(ownerID, model.FieldOwnerID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get merchant account")

		return nil, fmt.Errorf("failed to get merchant account: %w", err)
	}

	if account.ID == constant.Empty {
		return nil, nil
	}

	if !s.cfg.External.Stripe.TestMode {
		if err = s.revalidate(ctx, &account); err != nil {
			return nil, err
		}
	}

	res = &dto.MerchantAccountResponse{}
	res.FromModel(account)

	return res, nil
}

// revalidate refreshes IsActive from the processor and persists a change.
func (s *serviceImpl) revalidate(ctx context.Context, account *model.MerchantAccount) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	remote, err := s.stripe.GetAccount(ctx, account.AccountID)
	if err != nil {
		log.Error().Err(err).Str("account", account.AccountID).Msg("failed to get merchant account from processor")

		return processorError(err, "get merchant account")
	}

	active := chargeable(remote)
	if active == account.IsActive {
		return nil
	}

	account.IsActive = active

	fields := map[string]any{
		model.FieldIsActive:      active,
		constant.FieldModifiedBy: constant.ContextGuest,
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(account.ID, model.FieldID, model.TableName)); err != nil {
		log.Warn().Err(err).Str("account", account.AccountID).Msg("failed to persist merchant account status")
	}

	return nil
}

func chargeable(account *stripeGo.Account) bool {
	if account == nil || account.Capabilities == nil {
		return false
	}

	return account.Capabilities.CardPayments == stripeGo.AccountCapabilityStatusActive &&
		account.Capabilities.Transfers == stripeGo.AccountCapabilityStatusActive
}

func (s *serviceImpl) CreateMerchantAccount(ctx context.Context) (res dto.MerchantAccountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateMerchantAccount")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity := shared.IdentityFromContext(ctx)

	existing, err := s.GetMerchantAccount(ctx, identity.ID)
	if err != nil {
		return res, err
	}

	if existing != nil && existing.IsActive {
		return *existing, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if existing == nil {
		remote, err := s.stripe.CreateAccount(ctx, identity.Email, s.cfg.External.Stripe.DefaultCountry)
		if err != nil {
			log.Error().Err(err).Msg("failed to create merchant account")

			return res, processorError(err, "create merchant account")
		}

		account := model.MerchantAccount{
			OwnerID:   identity.ID,
			AccountID: remote.ID,
			IsActive:  chargeable(remote),
		}
		account.CreatedBy = identity.ID
		account.ModifiedBy = identity.ID

		if err = s.repo.Insert(ctx, account); err != nil {
			log.Error().Err(err).Msg("failed to store merchant account")

			return res, fmt.Errorf("failed to store merchant account: %w", err)
		}

		existing = &dto.MerchantAccountResponse{}
		existing.FromModel(account)
	}

	link, err := s.stripe.CreateAccountLink(ctx, existing.AccountID)
	if err != nil {
		log.Error().Err(err).Str("account", existing.AccountID).Msg("failed to create onboarding link")

		return res, processorError(err, "create onboarding link")
	}

	res = *existing
	res.OnboardingURL = link.URL

	return res, nil
}

func (s *serviceImpl) ListPaymentMethods(ctx context.Context) (res []dto.PaymentMethodResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListPaymentMethods")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.findCustomer(ctx)
	if err != nil || customer == nil {
		return []dto.PaymentMethodResponse{}, err
	}

	methods, err := s.stripe.ListPaymentMethods(ctx, customer.ID)
	if err != nil {
		log.Error().Err(err).Str("customer", customer.ID).Msg("failed to list payment methods")

		return nil, processorError(err, "list payment methods")
	}

	defaultID := defaultPaymentMethod(customer)
	res = make([]dto.PaymentMethodResponse, len(methods))

	for i, method := range methods {
		res[i].FromPaymentMethod(method, defaultID)
	}

	return res, nil
}

func (s *serviceImpl) AttachPaymentMethod(ctx context.Context, req dto.AttachPaymentMethodRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AttachPaymentMethod")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	identity := shared.IdentityFromContext(ctx)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.customer(ctx, identity.Email, identity.Name)
	if err != nil {
		return err
	}

	if _, err = s.stripe.AttachPaymentMethod(ctx, req.PaymentMethodID, customer.ID); err != nil {
		log.Error().Err(err).Str("customer", customer.ID).Msg("failed to attach payment method")

		return processorError(err, "attach payment method")
	}

	if !req.SetDefault {
		return nil
	}

	if err = s.stripe.UpdateDefaultPaymentMethod(ctx, customer.ID, req.PaymentMethodID); err != nil {
		log.Error().Err(err).Str("customer", customer.ID).Msg("failed to set default payment method")

		return processorError(err, "set default payment method")
	}

	return nil
}

func (s *serviceImpl) DetachPaymentMethod(ctx context.Context, paymentMethodID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DetachPaymentMethod")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.ownedMethod(ctx, paymentMethodID)
	if err != nil {
		return err
	}

	if _, err = s.stripe.DetachPaymentMethod(ctx, paymentMethodID); err != nil {
		log.Error().Err(err).Str("paymentMethod", paymentMethodID).Msg("failed to detach payment method")

		return processorError(err, "detach payment method")
	}

	if defaultPaymentMethod(customer) != paymentMethodID {
		return nil
	}

	if err = s.stripe.UpdateDefaultPaymentMethod(ctx, customer.ID, constant.Empty); err != nil {
		log.Warn().Err(err).Str("customer", customer.ID).Msg("failed to unset default payment method")
	}

	return nil
}

func (s *serviceImpl) SetDefaultPaymentMethod(ctx context.Context, paymentMethodID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetDefaultPaymentMethod")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	customer, err := s.ownedMethod(ctx, paymentMethodID)
	if err != nil {
		return err
	}

	if err = s.stripe.UpdateDefaultPaymentMethod(ctx, customer.ID, paymentMethodID); err != nil {
		log.Error().Err(err).Str("customer", customer.ID).Msg("failed to set default payment method")

		return processorError(err, "set default payment method")
	}

	return nil
}

// customer finds the processor customer for email, creating it on first use.
func (s *serviceImpl) customer(ctx context.Context, email, name string) (*stripeGo.Customer, error) {
	customer, err := s.stripe.FindCustomerByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("failed to find customer")

		return nil, processorError(err, "find customer")
	}

	if customer != nil {
		return customer, nil
	}

	customer, err = s.stripe.CreateCustomer(ctx, email, name)
	if err != nil {
		log.Error().Err(err).Msg("failed to create customer")

		return nil, processorError(err, "create customer")
	}

	return customer, nil
}

func (s *serviceImpl) findCustomer(ctx context.Context) (*stripeGo.Customer, error) {
	customer, err := s.stripe.FindCustomerByEmail(ctx, shared.IdentityFromContext(ctx).Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to find customer")

		return nil, processorError(err, "find customer")
	}

	return customer, nil
}

// ownedMethod returns the caller's customer when paymentMethodID belongs to it.
func (s *serviceImpl) ownedMethod(ctx context.Context, paymentMethodID string) (*stripeGo.Customer, error) {
	customer, err := s.findCustomer(ctx)
	if err != nil {
		return nil, err
	}

	if customer == nil {
		return nil, failure.NotFound("payment method not found") // nolint:wrapcheck
	}

	methods, err := s.stripe.ListPaymentMethods(ctx, customer.ID)
	if err != nil {
		log.Error().Err(err).Str("customer", customer.ID).Msg("failed to list payment methods")

		return nil, processorError(err, "list payment methods")
	}

	for _, method := range methods {
		if method.ID == paymentMethodID {
			return customer, nil
		}
	}

	return nil, failure.NotFound("payment method not found") // nolint:wrapcheck
}

func defaultPaymentMethod(customer *stripeGo.Customer) string {
	if customer.InvoiceSettings == nil || customer.InvoiceSettings.DefaultPaymentMethod == nil {
		return constant.Empty
	}

	return customer.InvoiceSettings.DefaultPaymentMethod.ID
}

// processorError maps a processor failure to a payment Failure. Card and
// request errors are the caller's fault.
func processorError(err error, action string) error {
	var stripeErr *stripeGo.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripeGo.ErrorTypeCard, stripeGo.ErrorTypeInvalidRequest:
			return failure.PaymentRejected(stripeErr.Msg)
		default:
			return failure.PaymentError(stripeErr.Msg)
		}
	}

	if timedOut(err) {
		return failure.PaymentError(action + " timed out")
	}

	return failure.PaymentError("failed to " + action)
}

func timedOut(err error) bool {
	var netErr net.Error

	return errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
}
