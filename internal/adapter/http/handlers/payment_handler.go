package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	request "lunapay/internal/adapter/http/dto/request"
	response "lunapay/internal/adapter/http/dto/response"
	"lunapay/internal/adapter/http/middleware"
	"lunapay/internal/usecase"
	"lunapay/internal/usecase/interfaces"
	"lunapay/pkg"
)

var errInvalidPaymentPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

// PaymentHandler handles the tenant-facing payment routes.

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
	log     zerolog.Logger
}

func NewPaymentHandler(uc usecase.IPaymentUseCase, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		usecase: uc,
		log:     log.With().Str("component", "handler.payment").Logger(),
	}
}

func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing identity headers", http.StatusUnauthorized)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	var payload request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPaymentPayload.HTTPStatus, errInvalidPaymentPayload.ToHTTPError())
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), principal, payload.ToEntity())
	if err != nil {
		h.log.Warn().Err(err).Str("tenant_id", principal.TenantID).Msg("create payment failed")
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromPayment(created))
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing identity headers", http.StatusUnauthorized)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	payments, err := h.usecase.List(c.Request.Context(), principal)
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromPayments(payments))
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing identity headers", http.StatusUnauthorized)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	payment, err := h.usecase.GetByID(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromPayment(payment))
}

func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing identity headers", http.StatusUnauthorized)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	payment, err := h.usecase.GetByID(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.StatusFromPayment(payment))
}

func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		appErr := pkg.NewDomainErrorSimple("UNAUTHORIZED", "Missing identity headers", http.StatusUnauthorized)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	canceled, err := h.usecase.Cancel(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		h.log.Warn().Err(err).Str("tenant_id", principal.TenantID).Str("payment_id", c.Param("id")).Msg("cancel payment failed")
		appErr := mapPaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromPayment(canceled))
}

func mapPaymentError(err error) *pkg.AppError {
	var gatewayErr *interfaces.GatewayError
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentID),
		errors.Is(err, usecase.ErrInvalidPaymentMethod),
		errors.Is(err, usecase.ErrUnsupportedGateway):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, interfaces.ErrGatewayNotEnabled):
		return pkg.NewDomainErrorSimple("GATEWAY_NOT_ENABLED", "Payment gateway not enabled", http.StatusServiceUnavailable)
	case errors.As(err, &gatewayErr):
		return pkg.NewDomainError("GATEWAY_ERROR", "Payment gateway rejected the request", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCannotCancelPaid):
		return pkg.NewDomainErrorSimple("PAYMENT_ALREADY_PAID", "Cannot cancel a paid payment", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentAlreadyCanceled):
		return pkg.NewDomainErrorSimple("PAYMENT_ALREADY_CANCELED", "Payment already canceled", http.StatusConflict)
	case errors.Is(err, usecase.ErrPaymentNotCancelable):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_CANCELABLE", "Payment cannot be canceled", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
