package gateways

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/rs/zerolog"

	"lunapay/internal/domain/entities"
	"lunapay/internal/infrastructure/config"
	"lunapay/internal/usecase/interfaces"
)

// GatewayNameMercadoPago is the canonical Mercado Pago provider name.
const GatewayNameMercadoPago = "MERCADOPAGO"

const mercadoPagoExpirationFormat = "2006-01-02T15:04:05.000-07:00"

// MercadoPagoGateway integrates through the official SDK. PIX and boleto
// are supported; card methods require provider-side tokenization and are
// rejected. Notifications only carry the payment id, so ProcessWebhook
// returns a status-less result and the caller polls GetPaymentStatus.
type MercadoPagoGateway struct {
	cfg    *config.Config
	client payment.Client
	log    zerolog.Logger
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(cfg *config.Config, log zerolog.Logger) *MercadoPagoGateway {
	g := &MercadoPagoGateway{
		cfg: cfg,
		log: log.With().Str("component", "gateway.mercadopago").Logger(),
	}

	if cfg.MercadoPago.APIKey == "" {
		g.log.Warn().Msg("access token not configured, gateway unavailable")
		return g
	}
	sdkCfg, err := mpconfig.New(cfg.MercadoPago.APIKey)
	if err != nil {
		g.log.Error().Err(err).Msg("sdk config failed, gateway unavailable")
		return g
	}
	g.client = payment.NewClient(sdkCfg)
	return g
}

func (g *MercadoPagoGateway) Name() string {
	return GatewayNameMercadoPago
}

func (g *MercadoPagoGateway) IsEnabled() bool {
	return g.cfg.MercadoPago.Enabled && g.client != nil
}

func mercadoPagoMethodID(method entities.PaymentMethod) (string, bool) {
	switch method {
	case entities.PaymentMethodPix:
		return "pix", true
	case entities.PaymentMethodBoleto:
		return "bolbradesco", true
	}
	return "", false
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest, tenantID string) (interfaces.GatewayPaymentResult, error) {
	if !g.IsEnabled() {
		return interfaces.GatewayPaymentResult{}, interfaces.ErrGatewayNotEnabled
	}

	methodID, ok := mercadoPagoMethodID(req.PaymentMethod)
	if !ok {
		return interfaces.GatewayPaymentResult{}, interfaces.NewGatewayError(GatewayNameMercadoPago,
			"payment method "+req.PaymentMethod.String()+" requires card tokenization and is not supported", nil)
	}
	g.log.Info().Str("tenant_id", tenantID).Str("method", req.PaymentMethod.String()).Msg("creating payment")

	// The SDK request is assembled as a map and round-tripped through JSON
	// so only the fields we actually send are named here.
	body := map[string]any{
		"transaction_amount": req.Amount,
		"description":        req.Description,
		"payment_method_id":  methodID,
		"external_reference": tenantID,
	}
	if req.Customer != nil {
		payer := map[string]any{"email": req.Customer.Email}
		if req.Customer.CpfCnpj != "" {
			payer["identification"] = map[string]any{"type": "CPF", "number": req.Customer.CpfCnpj}
		}
		body["payer"] = payer
	}
	if req.PaymentMethod == entities.PaymentMethodPix && req.PixExpirationMinutes > 0 {
		expires := time.Now().UTC().Add(time.Duration(req.PixExpirationMinutes) * time.Minute)
		body["date_of_expiration"] = expires.Format(mercadoPagoExpirationFormat)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return interfaces.GatewayPaymentResult{}, interfaces.NewGatewayError(GatewayNameMercadoPago, "encoding request", err)
	}
	var sdkReq payment.Request
	if err := json.Unmarshal(encoded, &sdkReq); err != nil {
		return interfaces.GatewayPaymentResult{}, interfaces.NewGatewayError(GatewayNameMercadoPago, "building sdk request", err)
	}

	resp, err := g.client.Create(ctx, sdkReq)
	if err != nil {
		g.log.Error().Err(err).Str("tenant_id", tenantID).Msg("charge creation failed")
		return interfaces.GatewayPaymentResult{}, interfaces.NewGatewayError(GatewayNameMercadoPago, "charge creation failed", err)
	}
	if resp == nil || resp.ID == 0 {
		return interfaces.GatewayPaymentResult{}, interfaces.NewGatewayError(GatewayNameMercadoPago, "charge response missing id", nil)
	}

	result := interfaces.GatewayPaymentResult{
		GatewayPaymentID: strconv.Itoa(resp.ID),
		PaymentMethod:    req.PaymentMethod,
		Amount:           req.Amount,
	}
	g.fillMethodFields(&result, resp, req.PaymentMethod)

	g.log.Info().Str("gateway_payment_id", result.GatewayPaymentID).Str("provider_status", resp.Status).Msg("payment created")
	return result, nil
}

// fillMethodFields digs the PIX/boleto payloads out of the SDK response by
// re-marshaling it, mirroring the schema tolerance of the raw API.
func (g *MercadoPagoGateway) fillMethodFields(result *interfaces.GatewayPaymentResult, resp *payment.Response, method entities.PaymentMethod) {
	raw, err := json.Marshal(resp)
	if err != nil {
		g.log.Warn().Err(err).Msg("response re-marshal failed, method fields dropped")
		return
	}
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return
	}

	switch method {
	case entities.PaymentMethodPix:
		txData, _ := dig(parsed, "point_of_interaction", "transaction_data").(map[string]any)
		if txData == nil {
			return
		}
		result.PixQrCode, _ = txData["qr_code"].(string)
		result.PixCopyPaste, _ = txData["qr_code"].(string)
		result.PixQrCodeBase64, _ = txData["qr_code_base64"].(string)
		if rawExp, ok := parsed["date_of_expiration"].(string); ok && rawExp != "" {
			if exp, err := time.Parse(mercadoPagoExpirationFormat, rawExp); err == nil {
				expUTC := exp.UTC()
				result.PixExpiresAt = &expUTC
			}
		}
	case entities.PaymentMethodBoleto:
		if url, ok := dig(parsed, "transaction_details", "external_resource_url").(string); ok {
			result.BoletoURL = url
		}
		if barcode, ok := dig(parsed, "barcode", "content").(string); ok {
			result.BoletoBarCode = barcode
		}
		if rawExp, ok := parsed["date_of_expiration"].(string); ok && rawExp != "" {
			if exp, err := time.Parse(mercadoPagoExpirationFormat, rawExp); err == nil {
				expUTC := exp.UTC()
				result.BoletoExpiresAt = &expUTC
			}
		}
	}
}

func dig(m map[string]any, keys ...string) any {
	var current any = m
	for _, key := range keys {
		asMap, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = asMap[key]
	}
	return current
}

func (g *MercadoPagoGateway) GetPaymentStatus(ctx context.Context, gatewayPaymentID string) (interfaces.GatewayPaymentStatus, error) {
	if g.client == nil {
		return interfaces.GatewayPaymentStatus{}, interfaces.ErrGatewayNotEnabled
	}
	id, err := strconv.Atoi(gatewayPaymentID)
	if err != nil {
		return interfaces.GatewayPaymentStatus{}, interfaces.NewGatewayError(GatewayNameMercadoPago, "invalid payment id: "+gatewayPaymentID, err)
	}

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		return interfaces.GatewayPaymentStatus{}, interfaces.NewGatewayError(GatewayNameMercadoPago, "status lookup failed", err)
	}
	if resp == nil {
		return interfaces.GatewayPaymentStatus{}, interfaces.NewGatewayError(GatewayNameMercadoPago, "empty status response", nil)
	}

	return interfaces.GatewayPaymentStatus{
		GatewayPaymentID: gatewayPaymentID,
		Status:           mapMercadoPagoStatus(resp.Status),
		GatewayStatus:    resp.Status,
		Message:          "status: " + resp.Status,
	}, nil
}

func (g *MercadoPagoGateway) CancelPayment(ctx context.Context, gatewayPaymentID string) (bool, error) {
	if g.client == nil {
		return false, interfaces.ErrGatewayNotEnabled
	}
	id, err := strconv.Atoi(gatewayPaymentID)
	if err != nil {
		return false, interfaces.NewGatewayError(GatewayNameMercadoPago, "invalid payment id: "+gatewayPaymentID, err)
	}
	if _, err := g.client.Cancel(ctx, id); err != nil {
		g.log.Warn().Err(err).Str("gateway_payment_id", gatewayPaymentID).Msg("provider cancel failed")
		return false, interfaces.NewGatewayError(GatewayNameMercadoPago, "cancel failed", err)
	}
	return true, nil
}

// ValidateWebhook verifies the HMAC-SHA256 hex signature of the raw body
// carried in the x-signature header.
func (g *MercadoPagoGateway) ValidateWebhook(signature string, payload []byte) bool {
	props := g.cfg.MercadoPago
	if props.WebhookSecret == "" {
		if g.cfg.AllowUnverifiedWebhooks(props) {
			g.log.Warn().Msg("webhook secret not configured, accepting unverified delivery")
			return true
		}
		return false
	}
	return hmacSignatureMatches(props.WebhookSecret, payload, signature)
}

type mercadoPagoNotification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

func (g *MercadoPagoGateway) ProcessWebhook(payload []byte) (interfaces.WebhookResult, error) {
	var evt mercadoPagoNotification
	if err := json.Unmarshal(payload, &evt); err != nil {
		g.log.Warn().Msg("webhook payload malformed, discarding")
		return interfaces.WebhookResult{Ignore: true, Message: "invalid payload"}, nil
	}
	if evt.Type != "payment" || evt.Data.ID.String() == "" {
		return interfaces.WebhookResult{Ignore: true, Message: "unmapped notification type: " + evt.Type}, nil
	}

	// The notification has no status of its own; the ingestion pipeline
	// polls GetPaymentStatus with this id.
	return interfaces.WebhookResult{
		GatewayPaymentID: evt.Data.ID.String(),
		Message:          "payment notification",
	}, nil
}
