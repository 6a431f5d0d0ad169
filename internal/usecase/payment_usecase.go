package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lunapay/internal/domain/entities"
	"lunapay/internal/usecase/interfaces"
)

var (
	ErrInvalidPaymentID       = errors.New("invalid payment id")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrUnsupportedGateway     = errors.New("unsupported gateway")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrCannotCancelPaid       = errors.New("cannot cancel a paid payment")
	ErrPaymentAlreadyCanceled = errors.New("payment already canceled")
	ErrPaymentNotCancelable   = errors.New("payment cannot be canceled in its current status")
)

// IPaymentUseCase is the payment orchestration boundary: create, read and
// cancel, always scoped to the caller's tenant.

type IPaymentUseCase interface {
	Create(ctx context.Context, principal entities.Principal, req entities.PaymentRequest) (entities.Payment, error)
	List(ctx context.Context, principal entities.Principal) ([]entities.Payment, error)
	GetByID(ctx context.Context, principal entities.Principal, id string) (entities.Payment, error)
	Cancel(ctx context.Context, principal entities.Principal, id string) (entities.Payment, error)
}

type PaymentUseCase struct {
	repo     interfaces.IPaymentRepository
	registry interfaces.IGatewayRegistry
	log      zerolog.Logger
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IPaymentRepository, registry interfaces.IGatewayRegistry, log zerolog.Logger) *PaymentUseCase {
	return &PaymentUseCase{
		repo:     repo,
		registry: registry,
		log:      log.With().Str("component", "usecase.payment").Logger(),
	}
}

// Create resolves the adapter, opens the charge with the provider and only
// then persists the record, in PENDING. A failed provider call leaves no
// trace locally.
func (u *PaymentUseCase) Create(ctx context.Context, principal entities.Principal, req entities.PaymentRequest) (entities.Payment, error) {
	gatewayName := strings.ToUpper(strings.TrimSpace(req.Gateway))
	u.log.Info().Str("tenant_id", principal.TenantID).Str("gateway", gatewayName).Msg("creating payment")

	if !req.PaymentMethod.IsValid() {
		return entities.Payment{}, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	gateway, ok := u.registry.Resolve(gatewayName)
	if !ok {
		return entities.Payment{}, fmt.Errorf("%w: %s", ErrUnsupportedGateway, req.Gateway)
	}
	if !gateway.IsEnabled() {
		return entities.Payment{}, fmt.Errorf("%s: %w", gatewayName, interfaces.ErrGatewayNotEnabled)
	}

	result, err := gateway.CreatePayment(ctx, req, principal.TenantID)
	if err != nil {
		u.log.Error().Err(err).Str("tenant_id", principal.TenantID).Str("gateway", gatewayName).Msg("gateway create failed")
		return entities.Payment{}, err
	}

	now := time.Now().UTC()
	p := entities.Payment{
		ID:                uuid.NewString(),
		TenantID:          principal.TenantID,
		Amount:            req.Amount,
		Description:       req.Description,
		Status:            entities.PaymentStatusPending,
		Gateway:           gatewayName,
		GatewayPaymentID:  result.GatewayPaymentID,
		PaymentMethod:     req.PaymentMethod,
		PixQrCode:         result.PixQrCode,
		PixQrCodeBase64:   result.PixQrCodeBase64,
		PixCopyPaste:      result.PixCopyPaste,
		PixExpiresAt:      result.PixExpiresAt,
		BoletoBarCode:     result.BoletoBarCode,
		BoletoURL:         result.BoletoURL,
		BoletoExpiresAt:   result.BoletoExpiresAt,
		AuthorizationCode: result.AuthorizationCode,
		NSU:               result.NSU,
		CreatedAt:         now,
		UpdatedAt:         now,
		CreatedBy:         principal.UserID,
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		u.log.Error().Err(err).Str("payment_id", p.ID).Msg("persist failed")
		return entities.Payment{}, err
	}

	u.log.Info().Str("payment_id", created.ID).Str("gateway_payment_id", created.GatewayPaymentID).Msg("payment created")
	return created, nil
}

func (u *PaymentUseCase) List(ctx context.Context, principal entities.Principal) ([]entities.Payment, error) {
	return u.repo.ListByTenantID(ctx, principal.TenantID)
}

// GetByID treats a tenant mismatch exactly like a missing record.
func (u *PaymentUseCase) GetByID(ctx context.Context, principal entities.Principal, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" || p.TenantID != principal.TenantID {
		return entities.Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

// Cancel marks the record CANCELED after a best-effort provider cancel.
// The provider call is advisory: its failure is logged and ignored.
func (u *PaymentUseCase) Cancel(ctx context.Context, principal entities.Principal, id string) (entities.Payment, error) {
	p, err := u.GetByID(ctx, principal, id)
	if err != nil {
		return entities.Payment{}, err
	}

	switch {
	case p.Status == entities.PaymentStatusPaid:
		return entities.Payment{}, ErrCannotCancelPaid
	case p.Status == entities.PaymentStatusCanceled:
		return entities.Payment{}, ErrPaymentAlreadyCanceled
	case !p.Status.CanTransitionTo(entities.PaymentStatusCanceled):
		return entities.Payment{}, ErrPaymentNotCancelable
	}

	if gateway, ok := u.registry.Resolve(p.Gateway); ok && gateway.IsEnabled() {
		if canceled, err := gateway.CancelPayment(ctx, p.GatewayPaymentID); err != nil || !canceled {
			u.log.Warn().Err(err).Str("payment_id", p.ID).Str("gateway", p.Gateway).Msg("provider cancel not confirmed, canceling locally anyway")
		}
	}

	updated, err := u.repo.UpdateStatus(ctx, p.ID, p.Status, entities.PaymentStatusCanceled, principal.UserID)
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			// A concurrent webhook won the race; the record is terminal now.
			return entities.Payment{}, ErrPaymentNotCancelable
		}
		return entities.Payment{}, err
	}

	u.log.Info().Str("payment_id", updated.ID).Msg("payment canceled")
	return updated, nil
}
