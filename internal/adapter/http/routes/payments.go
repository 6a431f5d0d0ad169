package routes

import (
	"lunapay/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const PathPayments = "/payments"

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentHandler) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("", paymentHandler.CreatePayment)
		payments.GET("", paymentHandler.ListPayments)
		payments.GET("/:id", paymentHandler.GetPayment)
		payments.GET("/:id/status", paymentHandler.GetPaymentStatus)
		payments.DELETE("/:id", paymentHandler.CancelPayment)
	}
}
