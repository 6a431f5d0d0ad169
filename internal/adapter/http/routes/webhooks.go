package routes

import (
	"lunapay/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

func addWebhookRoutes(rg *gin.RouterGroup, webhookHandler *handlers.WebhookHandler) {
	rg.POST("/asaas", webhookHandler.HandleAsaas)
	rg.POST("/c6", webhookHandler.HandleC6)
	rg.POST("/mercadopago", webhookHandler.HandleMercadoPago)
}
