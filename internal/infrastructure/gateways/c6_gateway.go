package gateways

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"lunapay/internal/domain/entities"
	"lunapay/internal/infrastructure/config"
	"lunapay/internal/usecase/interfaces"
)

// GatewayNameC6 is the canonical C6 Bank provider name.
const GatewayNameC6 = "C6"

const c6DefaultInstallments = 1

// C6Gateway integrates with the C6 Bank payments API. Authentication is a
// bearer token; webhooks are signed with HMAC-SHA256 of the raw body,
// carried hex-encoded in the X-C6-Signature header.
type C6Gateway struct {
	cfg  *config.Config
	rest *restClient
	log  zerolog.Logger
}

var _ interfaces.IPaymentGateway = (*C6Gateway)(nil)

func NewC6Gateway(cfg *config.Config, log zerolog.Logger) *C6Gateway {
	props := cfg.C6
	return &C6Gateway{
		cfg: cfg,
		rest: &restClient{
			gateway: GatewayNameC6,
			baseURL: props.BaseURL,
			client:  &http.Client{Timeout: props.Timeout()},
			headers: map[string]string{"Authorization": "Bearer " + props.APIKey},
		},
		log: log.With().Str("component", "gateway.c6").Logger(),
	}
}

func (g *C6Gateway) Name() string {
	return GatewayNameC6
}

func (g *C6Gateway) IsEnabled() bool {
	return g.cfg.C6.Enabled
}

type c6Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Document string `json:"document"`
	Phone    string `json:"phone,omitempty"`
}

type c6CardData struct {
	HolderName   string `json:"holder_name"`
	CardNumber   string `json:"card_number"`
	ExpiryMonth  string `json:"expiry_month"`
	ExpiryYear   string `json:"expiry_year"`
	CVV          string `json:"cvv"`
	Installments int    `json:"installments"`
}

type c6CreatePaymentRequest struct {
	Amount               float64     `json:"amount"`
	Description          string      `json:"description,omitempty"`
	PaymentMethod        string      `json:"payment_method"`
	Customer             *c6Customer `json:"customer,omitempty"`
	PixExpirationMinutes int         `json:"pix_expiration_minutes,omitempty"`
	CardData             *c6CardData `json:"card_data,omitempty"`
}

type c6CreatePaymentResponse struct {
	PaymentID         string     `json:"payment_id"`
	Status            string     `json:"status"`
	PixQrCode         string     `json:"pix_qr_code"`
	PixCopyPaste      string     `json:"pix_copy_paste"`
	PixQrCodeBase64   string     `json:"pix_qr_code_base64"`
	PixExpiresAt      *time.Time `json:"pix_expires_at"`
	BoletoBarCode     string     `json:"boleto_bar_code"`
	BoletoURL         string     `json:"boleto_url"`
	BoletoExpiresAt   *time.Time `json:"boleto_expires_at"`
	AuthorizationCode string     `json:"authorization_code"`
	NSU               string     `json:"nsu"`
	ErrorMessage      string     `json:"error_message"`
	ErrorCode         string     `json:"error_code"`
}

type c6PaymentStatusResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type c6WebhookEvent struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

func (g *C6Gateway) CreatePayment(ctx context.Context, req entities.PaymentRequest, tenantID string) (interfaces.GatewayPaymentResult, error) {
	if !g.IsEnabled() {
		return interfaces.GatewayPaymentResult{}, interfaces.ErrGatewayNotEnabled
	}
	g.log.Info().Str("tenant_id", tenantID).Str("method", req.PaymentMethod.String()).Msg("creating payment")

	charge := c6CreatePaymentRequest{
		Amount:               req.Amount,
		Description:          req.Description,
		PaymentMethod:        req.PaymentMethod.String(),
		PixExpirationMinutes: req.PixExpirationMinutes,
	}
	if req.Customer != nil {
		charge.Customer = &c6Customer{
			Name:     req.Customer.Name,
			Email:    req.Customer.Email,
			Document: req.Customer.CpfCnpj,
			Phone:    req.Customer.Phone,
		}
	}
	if req.CardData != nil {
		charge.CardData = &c6CardData{
			HolderName:   req.CardData.HolderName,
			CardNumber:   req.CardData.Number,
			ExpiryMonth:  req.CardData.ExpiryMonth,
			ExpiryYear:   req.CardData.ExpiryYear,
			CVV:          req.CardData.CVV,
			Installments: c6DefaultInstallments,
		}
	}

	// Tenant scoping rides a header on the provider side.
	rest := *g.rest
	headers := make(map[string]string, len(g.rest.headers)+1)
	for k, v := range g.rest.headers {
		headers[k] = v
	}
	headers["X-Tenant-ID"] = tenantID
	rest.headers = headers

	var resp c6CreatePaymentResponse
	if err := rest.do(ctx, http.MethodPost, "/payments", charge, &resp); err != nil {
		g.log.Error().Err(err).Str("tenant_id", tenantID).Msg("charge creation failed")
		return interfaces.GatewayPaymentResult{}, err
	}
	if resp.PaymentID == "" {
		return interfaces.GatewayPaymentResult{}, interfaces.NewGatewayError(GatewayNameC6, "charge response missing payment_id", nil)
	}
	if resp.ErrorMessage != "" {
		return interfaces.GatewayPaymentResult{}, &interfaces.GatewayError{
			Gateway: GatewayNameC6,
			Message: resp.ErrorMessage,
			Code:    resp.ErrorCode,
		}
	}

	result := interfaces.GatewayPaymentResult{
		GatewayPaymentID: resp.PaymentID,
		PaymentMethod:    req.PaymentMethod,
		Amount:           req.Amount,
	}
	if resp.PixQrCode != "" {
		result.PixQrCode = resp.PixQrCode
		result.PixCopyPaste = resp.PixCopyPaste
		result.PixQrCodeBase64 = resp.PixQrCodeBase64
		result.PixExpiresAt = resp.PixExpiresAt
	}
	if resp.BoletoBarCode != "" {
		result.BoletoBarCode = resp.BoletoBarCode
		result.BoletoURL = resp.BoletoURL
		result.BoletoExpiresAt = resp.BoletoExpiresAt
	}
	if resp.AuthorizationCode != "" {
		result.AuthorizationCode = resp.AuthorizationCode
		result.NSU = resp.NSU
	}

	g.log.Info().Str("gateway_payment_id", resp.PaymentID).Msg("payment created")
	return result, nil
}

func (g *C6Gateway) GetPaymentStatus(ctx context.Context, gatewayPaymentID string) (interfaces.GatewayPaymentStatus, error) {
	var resp c6PaymentStatusResponse
	if err := g.rest.do(ctx, http.MethodGet, "/payments/"+gatewayPaymentID, nil, &resp); err != nil {
		return interfaces.GatewayPaymentStatus{}, err
	}
	return interfaces.GatewayPaymentStatus{
		GatewayPaymentID: gatewayPaymentID,
		Status:           mapC6Status(resp.Status),
		GatewayStatus:    resp.Status,
		Message:          resp.Message,
	}, nil
}

func (g *C6Gateway) CancelPayment(ctx context.Context, gatewayPaymentID string) (bool, error) {
	if err := g.rest.do(ctx, http.MethodDelete, "/payments/"+gatewayPaymentID, nil, nil); err != nil {
		g.log.Warn().Err(err).Str("gateway_payment_id", gatewayPaymentID).Msg("provider cancel failed")
		return false, err
	}
	return true, nil
}

// ValidateWebhook verifies the HMAC-SHA256 hex signature of the raw body.
// A blank secret rejects unless unverified webhooks are explicitly allowed
// for a non-production environment.
func (g *C6Gateway) ValidateWebhook(signature string, payload []byte) bool {
	props := g.cfg.C6
	if props.WebhookSecret == "" {
		if g.cfg.AllowUnverifiedWebhooks(props) {
			g.log.Warn().Msg("webhook secret not configured, accepting unverified delivery")
			return true
		}
		return false
	}
	return hmacSignatureMatches(props.WebhookSecret, payload, signature)
}

func (g *C6Gateway) ProcessWebhook(payload []byte) (interfaces.WebhookResult, error) {
	var evt c6WebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil || evt.PaymentID == "" {
		g.log.Warn().Msg("webhook payload malformed or missing payment_id, discarding")
		return interfaces.WebhookResult{Ignore: true, Message: "invalid payload"}, nil
	}

	newStatus, ok := mapC6WebhookStatus(evt.Status)
	if !ok {
		return interfaces.WebhookResult{
			GatewayPaymentID: evt.PaymentID,
			Ignore:           true,
			Message:          "unmapped status: " + evt.Status,
		}, nil
	}

	return interfaces.WebhookResult{
		GatewayPaymentID: evt.PaymentID,
		NewStatus:        newStatus,
		Message:          "status: " + evt.Status,
	}, nil
}
