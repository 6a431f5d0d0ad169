package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"lunapay/internal/usecase/interfaces"
)

// ErrWebhookUnauthorized is returned when a delivery fails signature or
// token validation for its provider.
var ErrWebhookUnauthorized = errors.New("webhook signature validation failed")

// IWebhookUseCase ingests asynchronous status notifications from providers.

type IWebhookUseCase interface {
	Handle(ctx context.Context, gatewayName, signature string, payload []byte) error
}

type WebhookUseCase struct {
	repo     interfaces.IPaymentRepository
	registry interfaces.IGatewayRegistry
	log      zerolog.Logger
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(repo interfaces.IPaymentRepository, registry interfaces.IGatewayRegistry, log zerolog.Logger) *WebhookUseCase {
	return &WebhookUseCase{
		repo:     repo,
		registry: registry,
		log:      log.With().Str("component", "usecase.webhook").Logger(),
	}
}

// Handle runs the full ingestion pipeline: validate, parse, resolve the
// local record and apply the transition. Deliveries that cannot lead to a
// state change are acknowledged with nil so the provider stops retrying;
// only authentication failures and infrastructure errors surface.
func (u *WebhookUseCase) Handle(ctx context.Context, gatewayName, signature string, payload []byte) error {
	gateway, ok := u.registry.Resolve(gatewayName)
	if !ok || !gateway.IsEnabled() {
		return fmt.Errorf("%s: %w", gatewayName, interfaces.ErrGatewayNotEnabled)
	}
	log := u.log.With().Str("gateway", gateway.Name()).Logger()

	if !gateway.ValidateWebhook(signature, payload) {
		log.Warn().Msg("webhook rejected: signature validation failed")
		return ErrWebhookUnauthorized
	}

	result, err := gateway.ProcessWebhook(payload)
	if err != nil {
		log.Error().Err(err).Msg("webhook parse failed")
		return err
	}
	if result.Ignore || result.GatewayPaymentID == "" {
		log.Debug().Str("reason", result.Message).Msg("webhook acknowledged without action")
		return nil
	}

	newStatus := result.NewStatus
	if newStatus == "" {
		// Id-only notification: the provider tells us something changed but
		// not what. Ask it.
		status, err := gateway.GetPaymentStatus(ctx, result.GatewayPaymentID)
		if err != nil {
			log.Error().Err(err).Str("gateway_payment_id", result.GatewayPaymentID).Msg("status poll failed, leaving delivery to provider retry")
			return err
		}
		newStatus = status.Status
	}

	payment, err := u.repo.GetByGatewayPaymentID(ctx, gateway.Name(), result.GatewayPaymentID)
	if err != nil {
		return err
	}
	if payment.ID == "" {
		log.Warn().Str("gateway_payment_id", result.GatewayPaymentID).Msg("webhook for unknown payment, discarding")
		return nil
	}

	if payment.Status == newStatus {
		log.Debug().Str("payment_id", payment.ID).Str("status", newStatus.String()).Msg("redelivery, status already applied")
		return nil
	}
	if !payment.Status.CanTransitionTo(newStatus) {
		log.Info().
			Str("payment_id", payment.ID).
			Str("current", payment.Status.String()).
			Str("proposed", newStatus.String()).
			Msg("webhook transition rejected by state machine")
		return nil
	}

	if _, err := u.repo.UpdateStatus(ctx, payment.ID, payment.Status, newStatus, "system"); err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			log.Info().Str("payment_id", payment.ID).Msg("concurrent update won, delivery acknowledged")
			return nil
		}
		return err
	}

	log.Info().
		Str("payment_id", payment.ID).
		Str("from", payment.Status.String()).
		Str("to", newStatus.String()).
		Msg("payment status updated from webhook")
	return nil
}
