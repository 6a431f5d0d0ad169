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

// GatewayNameAsaas is the canonical Asaas provider name.
const GatewayNameAsaas = "ASAAS"

const asaasBoletoDueDays = 3

// AsaasGateway integrates with the Asaas charges API. Authentication is the
// access_token header; webhooks authenticate with a shared token carried in
// the asaas-access-token header.
type AsaasGateway struct {
	cfg  *config.Config
	rest *restClient
	log  zerolog.Logger
}

var _ interfaces.IPaymentGateway = (*AsaasGateway)(nil)

func NewAsaasGateway(cfg *config.Config, log zerolog.Logger) *AsaasGateway {
	props := cfg.Asaas
	return &AsaasGateway{
		cfg: cfg,
		rest: &restClient{
			gateway: GatewayNameAsaas,
			baseURL: props.BaseURL,
			client:  &http.Client{Timeout: props.Timeout()},
			headers: map[string]string{"access_token": props.APIKey},
		},
		log: log.With().Str("component", "gateway.asaas").Logger(),
	}
}

func (g *AsaasGateway) Name() string {
	return GatewayNameAsaas
}

func (g *AsaasGateway) IsEnabled() bool {
	return g.cfg.Asaas.Enabled
}

type asaasCustomerRequest struct {
	Name              string `json:"name"`
	CpfCnpj           string `json:"cpfCnpj"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	MobilePhone       string `json:"mobilePhone,omitempty"`
	ExternalReference string `json:"externalReference,omitempty"`
}

type asaasCustomerResponse struct {
	ID string `json:"id"`
}

type asaasCreditCard struct {
	HolderName  string `json:"holderName"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiryMonth"`
	ExpiryYear  string `json:"expiryYear"`
	Ccv         string `json:"ccv"`
}

type asaasCreditCardHolderInfo struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	CpfCnpj       string `json:"cpfCnpj"`
	Phone         string `json:"phone,omitempty"`
	PostalCode    string `json:"postalCode"`
	AddressNumber string `json:"addressNumber"`
}

type asaasCreatePaymentRequest struct {
	Customer             string                     `json:"customer"`
	BillingType          string                     `json:"billingType"`
	Value                float64                    `json:"value"`
	DueDate              string                     `json:"dueDate"`
	Description          string                     `json:"description,omitempty"`
	ExternalReference    string                     `json:"externalReference,omitempty"`
	CreditCard           *asaasCreditCard           `json:"creditCard,omitempty"`
	CreditCardHolderInfo *asaasCreditCardHolderInfo `json:"creditCardHolderInfo,omitempty"`
}

type asaasPixTransaction struct {
	QrCode         string     `json:"qrCode"`
	Payload        string     `json:"payload"`
	ExpirationDate *time.Time `json:"expirationDate"`
}

type asaasCreatePaymentResponse struct {
	ID                  string               `json:"id"`
	Status              string               `json:"status"`
	BankSlipURL         string               `json:"bankSlipUrl"`
	IdentificationField string               `json:"identificationField"`
	PixTransaction      *asaasPixTransaction `json:"pixTransaction"`
}

type asaasPaymentStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type asaasWebhookEvent struct {
	Event   string `json:"event"`
	Payment struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"payment"`
}

func (g *AsaasGateway) CreatePayment(ctx context.Context, req entities.PaymentRequest, tenantID string) (interfaces.GatewayPaymentResult, error) {
	if !g.IsEnabled() {
		return interfaces.GatewayPaymentResult{}, interfaces.ErrGatewayNotEnabled
	}
	g.log.Info().Str("tenant_id", tenantID).Str("method", req.PaymentMethod.String()).Msg("creating payment")

	customerID, err := g.createOrGetCustomer(ctx, req, tenantID)
	if err != nil {
		return interfaces.GatewayPaymentResult{}, err
	}

	charge := asaasCreatePaymentRequest{
		Customer:          customerID,
		BillingType:       req.PaymentMethod.String(),
		Value:             req.Amount,
		DueDate:           time.Now().UTC().AddDate(0, 0, asaasBoletoDueDays).Format("2006-01-02"),
		Description:       req.Description,
		ExternalReference: tenantID,
	}

	if req.CardData != nil && req.PaymentMethod.IsCard() {
		charge.CreditCard = &asaasCreditCard{
			HolderName:  req.CardData.HolderName,
			Number:      req.CardData.Number,
			ExpiryMonth: req.CardData.ExpiryMonth,
			ExpiryYear:  req.CardData.ExpiryYear,
			Ccv:         req.CardData.CVV,
		}
		if req.Customer != nil {
			charge.CreditCardHolderInfo = &asaasCreditCardHolderInfo{
				Name:          req.Customer.Name,
				Email:         req.Customer.Email,
				CpfCnpj:       req.Customer.CpfCnpj,
				Phone:         req.Customer.Phone,
				PostalCode:    "00000-000",
				AddressNumber: "S/N",
			}
		}
	}

	var resp asaasCreatePaymentResponse
	if err := g.rest.do(ctx, http.MethodPost, "/payments", charge, &resp); err != nil {
		g.log.Error().Err(err).Str("tenant_id", tenantID).Msg("charge creation failed")
		return interfaces.GatewayPaymentResult{}, err
	}
	if resp.ID == "" {
		return interfaces.GatewayPaymentResult{}, interfaces.NewGatewayError(GatewayNameAsaas, "charge response missing id", nil)
	}

	result := interfaces.GatewayPaymentResult{
		GatewayPaymentID: resp.ID,
		PaymentMethod:    req.PaymentMethod,
		Amount:           req.Amount,
	}
	switch {
	case req.PaymentMethod == entities.PaymentMethodPix && resp.PixTransaction != nil:
		result.PixQrCode = resp.PixTransaction.QrCode
		result.PixCopyPaste = resp.PixTransaction.Payload
		result.PixExpiresAt = resp.PixTransaction.ExpirationDate
	case req.PaymentMethod == entities.PaymentMethodBoleto:
		result.BoletoBarCode = resp.IdentificationField
		result.BoletoURL = resp.BankSlipURL
	}

	g.log.Info().Str("gateway_payment_id", resp.ID).Msg("payment created")
	return result, nil
}

func (g *AsaasGateway) createOrGetCustomer(ctx context.Context, req entities.PaymentRequest, tenantID string) (string, error) {
	if req.Customer == nil {
		return "", interfaces.NewGatewayError(GatewayNameAsaas, "customer data is required", nil)
	}

	payload := asaasCustomerRequest{
		Name:              req.Customer.Name,
		CpfCnpj:           req.Customer.CpfCnpj,
		Email:             req.Customer.Email,
		Phone:             req.Customer.Phone,
		MobilePhone:       req.Customer.Phone,
		ExternalReference: tenantID + "_" + req.Customer.CpfCnpj,
	}

	var resp asaasCustomerResponse
	if err := g.rest.do(ctx, http.MethodPost, "/customers", payload, &resp); err != nil {
		g.log.Error().Err(err).Str("tenant_id", tenantID).Msg("customer creation failed")
		return "", err
	}
	if resp.ID == "" {
		return "", interfaces.NewGatewayError(GatewayNameAsaas, "customer response missing id", nil)
	}
	return resp.ID, nil
}

func (g *AsaasGateway) GetPaymentStatus(ctx context.Context, gatewayPaymentID string) (interfaces.GatewayPaymentStatus, error) {
	var resp asaasPaymentStatusResponse
	if err := g.rest.do(ctx, http.MethodGet, "/payments/"+gatewayPaymentID, nil, &resp); err != nil {
		return interfaces.GatewayPaymentStatus{}, err
	}
	return interfaces.GatewayPaymentStatus{
		GatewayPaymentID: gatewayPaymentID,
		Status:           mapAsaasStatus(resp.Status),
		GatewayStatus:    resp.Status,
		Message:          "status: " + resp.Status,
	}, nil
}

func (g *AsaasGateway) CancelPayment(ctx context.Context, gatewayPaymentID string) (bool, error) {
	if err := g.rest.do(ctx, http.MethodDelete, "/payments/"+gatewayPaymentID, nil, nil); err != nil {
		g.log.Warn().Err(err).Str("gateway_payment_id", gatewayPaymentID).Msg("provider cancel failed")
		return false, err
	}
	return true, nil
}

// ValidateWebhook compares the asaas-access-token header against the
// configured webhook secret. A blank secret rejects unless unverified
// webhooks are explicitly allowed for a non-production environment.
func (g *AsaasGateway) ValidateWebhook(signature string, payload []byte) bool {
	props := g.cfg.Asaas
	if props.WebhookSecret == "" {
		if g.cfg.AllowUnverifiedWebhooks(props) {
			g.log.Warn().Msg("webhook secret not configured, accepting unverified delivery")
			return true
		}
		return false
	}
	return tokenMatches(props.WebhookSecret, signature)
}

func (g *AsaasGateway) ProcessWebhook(payload []byte) (interfaces.WebhookResult, error) {
	var evt asaasWebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil || evt.Payment.ID == "" {
		g.log.Warn().Msg("webhook payload malformed or missing payment id, discarding")
		return interfaces.WebhookResult{Ignore: true, Message: "invalid payload"}, nil
	}

	newStatus, ok := mapAsaasEvent(evt.Event)
	if !ok {
		return interfaces.WebhookResult{
			GatewayPaymentID: evt.Payment.ID,
			Ignore:           true,
			Message:          "unmapped event: " + evt.Event,
		}, nil
	}

	return interfaces.WebhookResult{
		GatewayPaymentID: evt.Payment.ID,
		NewStatus:        newStatus,
		Message:          "event: " + evt.Event,
	}, nil
}
