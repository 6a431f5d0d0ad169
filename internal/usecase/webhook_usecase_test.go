package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"lunapay/internal/domain/entities"
	"lunapay/internal/usecase/interfaces"
	mock_interfaces "lunapay/internal/usecase/interfaces/mocks"
)

func statusWebhook(id string, status entities.PaymentStatus) interfaces.WebhookResult {
	return interfaces.WebhookResult{GatewayPaymentID: id, NewStatus: status}
}

func TestWebhookUseCase_Handle_Guards(t *testing.T) {
	payload := []byte(`{"event":"PAYMENT_CONFIRMED"}`)

	t.Run("unknown gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		registry := mock_interfaces.NewMockIGatewayRegistry(ctrl)
		uc := NewWebhookUseCase(nil, registry, zerolog.Nop())

		registry.EXPECT().Resolve("STRIPE").Return(nil, false)

		err := uc.Handle(context.Background(), "STRIPE", "sig", payload)
		if !errors.Is(err, interfaces.ErrGatewayNotEnabled) {
			t.Fatalf("expected ErrGatewayNotEnabled, got %v", err)
		}
	})

	t.Run("disabled gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		registry := mock_interfaces.NewMockIGatewayRegistry(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewWebhookUseCase(nil, registry, zerolog.Nop())

		registry.EXPECT().Resolve("ASAAS").Return(gateway, true)
		gateway.EXPECT().IsEnabled().Return(false)

		err := uc.Handle(context.Background(), "ASAAS", "sig", payload)
		if !errors.Is(err, interfaces.ErrGatewayNotEnabled) {
			t.Fatalf("expected ErrGatewayNotEnabled, got %v", err)
		}
	})

	t.Run("invalid signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		registry := mock_interfaces.NewMockIGatewayRegistry(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewWebhookUseCase(nil, registry, zerolog.Nop())

		registry.EXPECT().Resolve("ASAAS").Return(gateway, true)
		gateway.EXPECT().IsEnabled().Return(true)
		gateway.EXPECT().Name().Return("ASAAS").AnyTimes()
		gateway.EXPECT().ValidateWebhook("bad-sig", payload).Return(false)

		err := uc.Handle(context.Background(), "ASAAS", "bad-sig", payload)
		if !errors.Is(err, ErrWebhookUnauthorized) {
			t.Fatalf("expected ErrWebhookUnauthorized, got %v", err)
		}
	})
}

func TestWebhookUseCase_Handle_Acknowledgements(t *testing.T) {
	payload := []byte(`{}`)

	setup := func(t *testing.T) (*WebhookUseCase, *mock_interfaces.MockIPaymentRepository, *mock_interfaces.MockIPaymentGateway) {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		registry := mock_interfaces.NewMockIGatewayRegistry(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		registry.EXPECT().Resolve("ASAAS").Return(gateway, true)
		gateway.EXPECT().IsEnabled().Return(true)
		gateway.EXPECT().Name().Return("ASAAS").AnyTimes()
		gateway.EXPECT().ValidateWebhook("sig", payload).Return(true)
		return NewWebhookUseCase(repo, registry, zerolog.Nop()), repo, gateway
	}

	t.Run("ignored delivery is acknowledged", func(t *testing.T) {
		uc, _, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(interfaces.WebhookResult{Ignore: true, Message: "unmapped"}, nil)

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty gateway payment id is acknowledged", func(t *testing.T) {
		uc, _, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(interfaces.WebhookResult{}, nil)

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unknown payment is discarded", func(t *testing.T) {
		uc, repo, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(statusWebhook("pay_404", entities.PaymentStatusPaid), nil)
		repo.EXPECT().GetByGatewayPaymentID(gomock.Any(), "ASAAS", "pay_404").Return(entities.Payment{}, nil)

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("redelivery with same status is a no-op", func(t *testing.T) {
		uc, repo, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(statusWebhook("pay_1", entities.PaymentStatusPaid), nil)
		repo.EXPECT().GetByGatewayPaymentID(gomock.Any(), "ASAAS", "pay_1").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusPaid}, nil)

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("stale delivery against terminal record is a no-op", func(t *testing.T) {
		uc, repo, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(statusWebhook("pay_1", entities.PaymentStatusPending), nil)
		repo.EXPECT().GetByGatewayPaymentID(gomock.Any(), "ASAAS", "pay_1").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusPaid}, nil)

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("canceled record rejects late confirmation", func(t *testing.T) {
		uc, repo, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(statusWebhook("pay_1", entities.PaymentStatusPaid), nil)
		repo.EXPECT().GetByGatewayPaymentID(gomock.Any(), "ASAAS", "pay_1").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusCanceled}, nil)

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("status conflict on write is acknowledged", func(t *testing.T) {
		uc, repo, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(statusWebhook("pay_1", entities.PaymentStatusPaid), nil)
		repo.EXPECT().GetByGatewayPaymentID(gomock.Any(), "ASAAS", "pay_1").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusPending}, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "p-1", entities.PaymentStatusPending, entities.PaymentStatusPaid, "system").
			Return(entities.Payment{}, interfaces.ErrStatusConflict)

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestWebhookUseCase_Handle_Transitions(t *testing.T) {
	payload := []byte(`{}`)

	setup := func(t *testing.T) (*WebhookUseCase, *mock_interfaces.MockIPaymentRepository, *mock_interfaces.MockIPaymentGateway) {
		ctrl := gomock.NewController(t)
		t.Cleanup(ctrl.Finish)
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		registry := mock_interfaces.NewMockIGatewayRegistry(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		registry.EXPECT().Resolve(gomock.Any()).Return(gateway, true)
		gateway.EXPECT().IsEnabled().Return(true)
		gateway.EXPECT().Name().Return("ASAAS").AnyTimes()
		gateway.EXPECT().ValidateWebhook("sig", payload).Return(true)
		return NewWebhookUseCase(repo, registry, zerolog.Nop()), repo, gateway
	}

	t.Run("pending to paid", func(t *testing.T) {
		uc, repo, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(statusWebhook("pay_1", entities.PaymentStatusPaid), nil)
		repo.EXPECT().GetByGatewayPaymentID(gomock.Any(), "ASAAS", "pay_1").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusPending}, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "p-1", entities.PaymentStatusPending, entities.PaymentStatusPaid, "system").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusPaid}, nil)

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("pending to failed", func(t *testing.T) {
		uc, repo, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(statusWebhook("pay_1", entities.PaymentStatusFailed), nil)
		repo.EXPECT().GetByGatewayPaymentID(gomock.Any(), "ASAAS", "pay_1").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusPending}, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "p-1", entities.PaymentStatusPending, entities.PaymentStatusFailed, "system").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusFailed}, nil)

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("id-only notification polls the provider", func(t *testing.T) {
		uc, repo, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(interfaces.WebhookResult{GatewayPaymentID: "123"}, nil)
		gateway.EXPECT().GetPaymentStatus(gomock.Any(), "123").Return(interfaces.GatewayPaymentStatus{
			GatewayPaymentID: "123",
			Status:           entities.PaymentStatusPaid,
			GatewayStatus:    "approved",
		}, nil)
		repo.EXPECT().GetByGatewayPaymentID(gomock.Any(), "ASAAS", "123").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusPending}, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "p-1", entities.PaymentStatusPending, entities.PaymentStatusPaid, "system").
			Return(entities.Payment{ID: "p-1", Status: entities.PaymentStatusPaid}, nil)

		if err := uc.Handle(context.Background(), "MERCADOPAGO", "sig", payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("poll failure is left to provider retry", func(t *testing.T) {
		uc, _, gateway := setup(t)
		pollErr := interfaces.NewGatewayError("MERCADOPAGO", "status lookup failed", errors.New("timeout"))
		gateway.EXPECT().ProcessWebhook(payload).Return(interfaces.WebhookResult{GatewayPaymentID: "123"}, nil)
		gateway.EXPECT().GetPaymentStatus(gomock.Any(), "123").Return(interfaces.GatewayPaymentStatus{}, pollErr)

		err := uc.Handle(context.Background(), "MERCADOPAGO", "sig", payload)
		var gatewayErr *interfaces.GatewayError
		if !errors.As(err, &gatewayErr) {
			t.Fatalf("expected GatewayError, got %v", err)
		}
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		uc, repo, gateway := setup(t)
		gateway.EXPECT().ProcessWebhook(payload).Return(statusWebhook("pay_1", entities.PaymentStatusPaid), nil)
		repo.EXPECT().GetByGatewayPaymentID(gomock.Any(), "ASAAS", "pay_1").
			Return(entities.Payment{}, errors.New("dynamo down"))

		if err := uc.Handle(context.Background(), "ASAAS", "sig", payload); err == nil {
			t.Fatalf("expected error")
		}
	})
}
