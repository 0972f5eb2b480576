package stripe

//go:generate go run go.uber.org/mock/mockgen -source=./stripe.go -destination=./mocks/stripe_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rental/config"
	"rental/infras/otel"
	"rental/shared/constant"

	"github.com/rs/zerolog/log"
	stripeGo "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

const (
	paymentMethodTypeCard  = "card"
	accountLinkOnboarding  = "account_onboarding"
	otelAttrPaymentIntent  = "payment_intent"
	otelAttrAccount        = "account"
	otelAttrIdempotencyKey = "idempotency_key"
)

// PaymentIntentParams describes an authorization hold on a customer's card
// whose proceeds are routed to a connected account minus the platform fee.
type PaymentIntentParams struct {
	Amount               int64
	Currency             string
	CustomerID           string
	PaymentMethodID      string
	DestinationAccountID string
	ApplicationFee       int64
	ManualCapture        bool
	IdempotencyKey       string
	Description          string
	Metadata             map[string]string
}

// Stripe is the thin processor client. Every call honours the deadline of ctx.
type Stripe interface {
	FindCustomerByEmail(ctx context.Context, email string) (*stripeGo.Customer, error)
	CreateCustomer(ctx context.Context, email, name string) (*stripeGo.Customer, error)
	UpdateDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (*stripeGo.PaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) (*stripeGo.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]*stripeGo.PaymentMethod, error)
	CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (*stripeGo.PaymentIntent, error)
	CapturePaymentIntent(ctx context.Context, paymentIntentID, idempotencyKey string) (*stripeGo.PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*stripeGo.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*stripeGo.PaymentIntent, error)
	RefundPaymentIntent(ctx context.Context, paymentIntentID, idempotencyKey string) (*stripeGo.Refund, error)
	GetAccount(ctx context.Context, accountID string) (*stripeGo.Account, error)
	CreateAccount(ctx context.Context, email, country string) (*stripeGo.Account, error)
	CreateAccountLink(ctx context.Context, accountID string) (*stripeGo.AccountLink, error)
}

type stripeImpl struct {
	api    *client.API
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Stripe {
	httpClient := &http.Client{Timeout: time.Duration(cfg.External.Stripe.TimeoutSeconds) * time.Second}

	backends := &stripeGo.Backends{
		API:     stripeGo.GetBackendWithConfig(stripeGo.APIBackend, &stripeGo.BackendConfig{HTTPClient: httpClient}),
		Connect: stripeGo.GetBackendWithConfig(stripeGo.ConnectBackend, &stripeGo.BackendConfig{HTTPClient: httpClient}),
		Uploads: stripeGo.GetBackendWithConfig(stripeGo.UploadsBackend, &stripeGo.BackendConfig{HTTPClient: httpClient}),
	}

	log.Info().Bool("testMode", cfg.External.Stripe.TestMode).Msg("Stripe client initialized")

	return &stripeImpl{
		api:    client.New(cfg.External.Stripe.SecretKey, backends),
		config: cfg,
		otel:   otel,
	}
}

func (s *stripeImpl) FindCustomerByEmail(ctx context.Context, email string) (res *stripeGo.Customer, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".FindCustomerByEmail")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := &stripeGo.CustomerListParams{Email: stripeGo.String(email)}
	params.Context = ctx
	params.Limit = stripeGo.Int64(1)

	iter := s.api.Customers.List(params)
	if iter.Next() {
		return iter.Customer(), nil
	}

	if err = iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return nil, nil
}

func (s *stripeImpl) CreateCustomer(ctx context.Context, email, name string) (res *stripeGo.Customer, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".CreateCustomer")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := &stripeGo.CustomerParams{
		Email: stripeGo.String(email),
		Name:  stripeGo.String(name),
	}
	params.Context = ctx

	res, err = s.api.Customers.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return res, nil
}

// UpdateDefaultPaymentMethod sets the invoice default of the customer. An
// empty paymentMethodID unsets it.
func (s *stripeImpl) UpdateDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".UpdateDefaultPaymentMethod")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := &stripeGo.CustomerParams{
		InvoiceSettings: &stripeGo.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripeGo.String(paymentMethodID),
		},
	}
	params.Context = ctx

	if _, err = s.api.Customers.Update(customerID, params); err != nil {
		return fmt.Errorf("failed to update default payment method: %w", err)
	}

	return nil
}

func (s *stripeImpl) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) (res *stripeGo.PaymentMethod, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".AttachPaymentMethod")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := &stripeGo.PaymentMethodAttachParams{Customer: stripeGo.String(customerID)}
	params.Context = ctx

	res, err = s.api.PaymentMethods.Attach(paymentMethodID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to attach payment method: %w", err)
	}

	return res, nil
}

func (s *stripeImpl) DetachPaymentMethod(ctx context.Context, paymentMethodID string) (res *stripeGo.PaymentMethod, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".DetachPaymentMethod")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := &stripeGo.PaymentMethodDetachParams{}
	params.Context = ctx

	res, err = s.api.PaymentMethods.Detach(paymentMethodID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to detach payment method: %w", err)
	}

	return res, nil
}

func (s *stripeImpl) ListPaymentMethods(ctx context.Context, customerID string) (res []*stripeGo.PaymentMethod, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".ListPaymentMethods")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := &stripeGo.PaymentMethodListParams{
		Customer: stripeGo.String(customerID),
		Type:     stripeGo.String(paymentMethodTypeCard),
	}
	params.Context = ctx

	iter := s.api.PaymentMethods.List(params)
	for iter.Next() {
		res = append(res, iter.PaymentMethod())
	}

	if err = iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}

	return res, nil
}

func (s *stripeImpl) CreatePaymentIntent(ctx context.Context, req PaymentIntentParams) (res *stripeGo.PaymentIntent, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".CreatePaymentIntent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	captureMethod := stripeGo.PaymentIntentCaptureMethodAutomatic
	if req.ManualCapture {
		captureMethod = stripeGo.PaymentIntentCaptureMethodManual
	}

	params := &stripeGo.PaymentIntentParams{
		Amount:        stripeGo.Int64(req.Amount),
		Currency:      stripeGo.String(req.Currency),
		Customer:      stripeGo.String(req.CustomerID),
		PaymentMethod: stripeGo.String(req.PaymentMethodID),
		CaptureMethod: stripeGo.String(string(captureMethod)),
		Confirm:       stripeGo.Bool(true),
		Description:   stripeGo.String(req.Description),
		AutomaticPaymentMethods: &stripeGo.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripeGo.Bool(true),
			AllowRedirects: stripeGo.String(string(stripeGo.PaymentIntentAutomaticPaymentMethodsAllowRedirectsNever)),
		},
	}

	if req.DestinationAccountID != constant.Empty {
		params.ApplicationFeeAmount = stripeGo.Int64(req.ApplicationFee)
		params.TransferData = &stripeGo.PaymentIntentTransferDataParams{
			Destination: stripeGo.String(req.DestinationAccountID),
		}
	}

	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	if req.IdempotencyKey != constant.Empty {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	params.Context = ctx

	scope.SetAttributes(map[string]any{
		otelAttrAccount:        req.DestinationAccountID,
		otelAttrIdempotencyKey: req.IdempotencyKey,
	})

	res, err = s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return res, nil
}

func (s *stripeImpl) CapturePaymentIntent(ctx context.Context, paymentIntentID, idempotencyKey string) (res *stripeGo.PaymentIntent, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".CapturePaymentIntent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelAttrPaymentIntent, paymentIntentID)

	params := &stripeGo.PaymentIntentCaptureParams{}
	params.Context = ctx

	if idempotencyKey != constant.Empty {
		params.SetIdempotencyKey(idempotencyKey)
	}

	res, err = s.api.PaymentIntents.Capture(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment intent: %w", err)
	}

	return res, nil
}

func (s *stripeImpl) CancelPaymentIntent(ctx context.Context, paymentIntentID string) (res *stripeGo.PaymentIntent, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".CancelPaymentIntent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelAttrPaymentIntent, paymentIntentID)

	params := &stripeGo.PaymentIntentCancelParams{}
	params.Context = ctx

	res, err = s.api.PaymentIntents.Cancel(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel payment intent: %w", err)
	}

	return res, nil
}

func (s *stripeImpl) GetPaymentIntent(ctx context.Context, paymentIntentID string) (res *stripeGo.PaymentIntent, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".GetPaymentIntent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelAttrPaymentIntent, paymentIntentID)

	params := &stripeGo.PaymentIntentParams{}
	params.Context = ctx

	res, err = s.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	return res, nil
}

// RefundPaymentIntent returns a captured charge in full. The transfer to the
// connected account and the platform fee are reversed with it.
func (s *stripeImpl) RefundPaymentIntent(ctx context.Context, paymentIntentID, idempotencyKey string) (res *stripeGo.Refund, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".RefundPaymentIntent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrPaymentIntent:  paymentIntentID,
		otelAttrIdempotencyKey: idempotencyKey,
	})

	params := &stripeGo.RefundParams{
		PaymentIntent:        stripeGo.String(paymentIntentID),
		ReverseTransfer:      stripeGo.Bool(true),
		RefundApplicationFee: stripeGo.Bool(true),
	}
	params.Context = ctx

	if idempotencyKey != constant.Empty {
		params.SetIdempotencyKey(idempotencyKey)
	}

	res, err = s.api.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to refund payment intent: %w", err)
	}

	return res, nil
}

func (s *stripeImpl) GetAccount(ctx context.Context, accountID string) (res *stripeGo.Account, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".GetAccount")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelAttrAccount, accountID)

	params := &stripeGo.AccountParams{}
	params.Context = ctx

	res, err = s.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return res, nil
}

func (s *stripeImpl) CreateAccount(ctx context.Context, email, country string) (res *stripeGo.Account, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".CreateAccount")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := &stripeGo.AccountParams{
		Type:    stripeGo.String(string(stripeGo.AccountTypeExpress)),
		Country: stripeGo.String(country),
		Email:   stripeGo.String(email),
		Capabilities: &stripeGo.AccountCapabilitiesParams{
			CardPayments: &stripeGo.AccountCapabilitiesCardPaymentsParams{Requested: stripeGo.Bool(true)},
			Transfers:    &stripeGo.AccountCapabilitiesTransfersParams{Requested: stripeGo.Bool(true)},
		},
	}
	params.Context = ctx

	res, err = s.api.Accounts.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return res, nil
}

func (s *stripeImpl) CreateAccountLink(ctx context.Context, accountID string) (res *stripeGo.AccountLink, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".CreateAccountLink")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := &stripeGo.AccountLinkParams{
		Account:    stripeGo.String(accountID),
		RefreshURL: stripeGo.String(s.config.External.Stripe.OnboardRefreshURL),
		ReturnURL:  stripeGo.String(s.config.External.Stripe.OnboardReturnURL),
		Type:       stripeGo.String(accountLinkOnboarding),
	}
	params.Context = ctx

	res, err = s.api.AccountLinks.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create account link: %w", err)
	}

	return res, nil
}
