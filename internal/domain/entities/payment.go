package entities

import "time"

// PaymentStatus is the internal, gateway-agnostic payment lifecycle.
//
// PENDING is the only non-terminal state. PAID, FAILED and CANCELED are
// terminal: once reached, no further transition is accepted, whether the
// trigger is a tenant cancel or an asynchronous gateway webhook.

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusCanceled PaymentStatus = "CANCELED"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status accepts no further transitions.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a valid
// state-machine edge. Self transitions are not edges; callers treat them
// as no-ops.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s.IsTerminal() || s == next {
		return false
	}
	switch next {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusCanceled:
		return s == PaymentStatusPending
	}
	return false
}

// PaymentMethod is the set of charge types accepted from tenants.

type PaymentMethod string

const (
	PaymentMethodPix        PaymentMethod = "PIX"
	PaymentMethodBoleto     PaymentMethod = "BOLETO"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodPix,
	PaymentMethodBoleto,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
}

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsCard reports whether the method settles through a card acquirer.
func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodDebitCard
}

// Payment is the durable record of a payment attempt.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (gateway_payment_id-index): gateway_payment_id
//   - GSI2 (tenant_id-index): tenant_id
//
// TenantID is immutable after creation and every lookup by id must also
// match it; a mismatch is indistinguishable from not-found. GatewayPaymentID
// is set exactly once, at creation, and is the join key for webhook
// resolution. Records are never deleted; cancellation is a status change.

type Payment struct {
	ID          string        `json:"id"`
	TenantID    string        `json:"tenant_id"`
	Amount      float64       `json:"amount"`
	Description string        `json:"description"`
	Status      PaymentStatus `json:"status"`

	Gateway          string        `json:"gateway"`
	GatewayPaymentID string        `json:"gateway_payment_id"`
	PaymentMethod    PaymentMethod `json:"payment_method"`

	// PIX
	PixQrCode       string     `json:"pix_qr_code,omitempty"`
	PixQrCodeBase64 string     `json:"pix_qr_code_base64,omitempty"`
	PixCopyPaste    string     `json:"pix_copy_paste,omitempty"`
	PixExpiresAt    *time.Time `json:"pix_expires_at,omitempty"`

	// Boleto
	BoletoBarCode   string     `json:"boleto_bar_code,omitempty"`
	BoletoURL       string     `json:"boleto_url,omitempty"`
	BoletoExpiresAt *time.Time `json:"boleto_expires_at,omitempty"`

	// Card
	AuthorizationCode string `json:"authorization_code,omitempty"`
	NSU               string `json:"nsu,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CreatedBy  string    `json:"created_by,omitempty"`
	ModifiedBy string    `json:"modified_by,omitempty"`
}
