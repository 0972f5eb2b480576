package dto

import (
	"rental/internal/domains/payment/model"

	"github.com/shopspring/decimal"
	stripeGo "github.com/stripe/stripe-go/v79"
)

const (
	CaptureModeManual    = "manual"
	CaptureModeAutomatic = "automatic"
)

// AuthorizeRequest asks the processor to hold Amount on the payer's card on
// behalf of the destination account.
type AuthorizeRequest struct {
	Amount               decimal.Decimal
	Currency             string
	PayerEmail           string
	PayerName            string
	DestinationAccountID string
	PaymentMethodID      string
	CaptureMode          string
	IdempotencyKey       string
	Description          string
	Metadata             map[string]string
}

type Hold struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Captured reports whether the funds already moved.
func (h Hold) Captured() bool {
	return h.Status == string(stripeGo.PaymentIntentStatusSucceeded)
}

func (h *Hold) FromIntent(intent *stripeGo.PaymentIntent) {
	h.ID = intent.ID
	h.Status = string(intent.Status)
	h.Amount = model.FromMinorUnits(intent.Amount)
	h.Currency = string(intent.Currency)
}

type CaptureResult struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

func (c *CaptureResult) FromIntent(intent *stripeGo.PaymentIntent) {
	c.TransactionID = intent.ID
	if intent.LatestCharge != nil && intent.LatestCharge.ID != "" {
		c.TransactionID = intent.LatestCharge.ID
	}

	c.Amount = model.FromMinorUnits(intent.AmountReceived)
}

type MerchantAccountResponse struct {
	AccountID     string `json:"account_id"`
	IsActive      bool   `json:"is_active"`
	OnboardingURL string `json:"onboarding_url,omitempty"`
}

func (m *MerchantAccountResponse) FromModel(account model.MerchantAccount) {
	m.AccountID = account.AccountID
	m.IsActive = account.IsActive
}

type PaymentMethodResponse struct {
	ID        string `json:"id"`
	Brand     string `json:"brand"`
	Last4     string `json:"last4"`
	ExpMonth  int64  `json:"exp_month"`
	ExpYear   int64  `json:"exp_year"`
	IsDefault bool   `json:"is_default"`
}

func (p *PaymentMethodResponse) FromPaymentMethod(method *stripeGo.PaymentMethod, defaultID string) {
	p.ID = method.ID
	p.IsDefault = method.ID == defaultID

	if method.Card != nil {
		p.Brand = string(method.Card.Brand)
		p.Last4 = method.Card.Last4
		p.ExpMonth = method.Card.ExpMonth
		p.ExpYear = method.Card.ExpYear
	}
}

type AttachPaymentMethodRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required,paymentmethod"`
	SetDefault      bool   `json:"set_default"`
}
