package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lunapay/internal/usecase"
	"lunapay/internal/usecase/interfaces"
	"lunapay/pkg"
)

// Provider-specific authentication headers.
const (
	headerAsaasToken  = "asaas-access-token"
	headerC6Signature = "X-C6-Signature"
	headerMPSignature = "x-signature"
)

// WebhookHandler receives provider deliveries. Each provider has its own
// route because each one authenticates differently.

type WebhookHandler struct {
	usecase usecase.IWebhookUseCase
	log     zerolog.Logger
}

func NewWebhookHandler(uc usecase.IWebhookUseCase, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		usecase: uc,
		log:     log.With().Str("component", "handler.webhook").Logger(),
	}
}

func (h *WebhookHandler) HandleAsaas(c *gin.Context) {
	h.handle(c, "ASAAS", c.GetHeader(headerAsaasToken))
}

func (h *WebhookHandler) HandleC6(c *gin.Context) {
	h.handle(c, "C6", c.GetHeader(headerC6Signature))
}

func (h *WebhookHandler) HandleMercadoPago(c *gin.Context) {
	h.handle(c, "MERCADOPAGO", c.GetHeader(headerMPSignature))
}

func (h *WebhookHandler) handle(c *gin.Context, gateway, signature string) {
	payload, err := c.GetRawData()
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	if err := h.usecase.Handle(c.Request.Context(), gateway, signature, payload); err != nil {
		h.log.Warn().Err(err).Str("gateway", gateway).Msg("webhook processing failed")
		appErr := mapWebhookError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed"})
}

func mapWebhookError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrWebhookUnauthorized):
		return pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "Invalid signature", http.StatusUnauthorized)
	case errors.Is(err, interfaces.ErrGatewayNotEnabled):
		return pkg.NewDomainErrorSimple("GATEWAY_NOT_ENABLED", "Payment gateway not enabled", http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("WEBHOOK_ERROR", "Error processing webhook", err, http.StatusInternalServerError)
	}
}
