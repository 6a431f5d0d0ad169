package interfaces

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lunapay/internal/domain/entities"
)

// ErrGatewayNotEnabled is returned when a provider is resolved but its
// configuration block is absent or disabled.
var ErrGatewayNotEnabled = errors.New("gateway not enabled")

// GatewayError is a failed provider call: 4xx/5xx, timeout, or a malformed
// response. It is never retried automatically.
type GatewayError struct {
	Gateway string
	Message string
	Code    string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Gateway, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Gateway, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func NewGatewayError(gateway, message string, err error) *GatewayError {
	return &GatewayError{Gateway: gateway, Message: message, Err: err}
}

// GatewayPaymentResult is a successful provider-side charge creation,
// normalized from the provider's wire format. Only the fields matching the
// requested payment method are populated.
type GatewayPaymentResult struct {
	GatewayPaymentID string
	PaymentMethod    entities.PaymentMethod
	Amount           float64

	// PIX
	PixQrCode       string
	PixQrCodeBase64 string
	PixCopyPaste    string
	PixExpiresAt    *time.Time

	// Boleto
	BoletoBarCode   string
	BoletoURL       string
	BoletoExpiresAt *time.Time

	// Card
	AuthorizationCode string
	NSU               string
}

// GatewayPaymentStatus is a point-in-time provider status read. It does not
// mutate local state by itself.
type GatewayPaymentStatus struct {
	GatewayPaymentID string
	Status           entities.PaymentStatus
	GatewayStatus    string
	Message          string
}

// WebhookResult is the parsed outcome of a provider webhook delivery.
// Ignore means acknowledge-and-discard: unknown events, informational
// events and malformed payloads all land here, since the provider cannot
// act on a failure response and would simply retry forever. A result with
// an empty NewStatus and Ignore unset carries an id-only notification; the
// caller polls GetPaymentStatus to learn the status.
type WebhookResult struct {
	GatewayPaymentID string
	NewStatus        entities.PaymentStatus
	Ignore           bool
	Message          string
}

// IPaymentGateway abstracts an external payment provider. Adding a provider
// means adding one implementation and registering it; nothing else changes.
type IPaymentGateway interface {
	// Name returns the canonical uppercase provider name (ASAAS, C6, ...).
	Name() string

	// IsEnabled reflects the live configuration for this provider.
	IsEnabled() bool

	// CreatePayment opens a charge with the provider. Callers check
	// IsEnabled first; a call on a disabled gateway fails with
	// ErrGatewayNotEnabled. Nothing must be persisted when this errors.
	CreatePayment(ctx context.Context, req entities.PaymentRequest, tenantID string) (GatewayPaymentResult, error)

	// GetPaymentStatus reads the provider's authoritative status.
	GetPaymentStatus(ctx context.Context, gatewayPaymentID string) (GatewayPaymentStatus, error)

	// CancelPayment is best-effort and advisory: a false or failed result
	// does not block local cancellation.
	CancelPayment(ctx context.Context, gatewayPaymentID string) (bool, error)

	// ValidateWebhook checks the delivery's authenticity against the
	// configured secret. A missing secret rejects by default.
	ValidateWebhook(signature string, payload []byte) bool

	// ProcessWebhook parses a delivery into a WebhookResult. Unknown event
	// types yield an Ignore result, never an error.
	ProcessWebhook(payload []byte) (WebhookResult, error)
}
