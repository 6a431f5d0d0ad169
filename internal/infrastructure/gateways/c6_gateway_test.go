package gateways

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"lunapay/internal/domain/entities"
	"lunapay/internal/infrastructure/config"
	"lunapay/internal/usecase/interfaces"
)

func c6TestConfig(baseURL string) *config.Config {
	return &config.Config{
		C6: config.GatewayProperties{
			Enabled:        true,
			APIKey:         "c6-token",
			BaseURL:        baseURL,
			WebhookSecret:  "c6-secret",
			Environment:    "sandbox",
			TimeoutSeconds: 5,
		},
	}
}

func signC6(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestC6Gateway_CreatePayment(t *testing.T) {
	t.Run("disabled gateway", func(t *testing.T) {
		cfg := c6TestConfig("http://unused")
		cfg.C6.Enabled = false
		g := NewC6Gateway(cfg, zerolog.Nop())

		_, err := g.CreatePayment(context.Background(), entities.PaymentRequest{PaymentMethod: entities.PaymentMethodPix}, "tenant-1")
		if !errors.Is(err, interfaces.ErrGatewayNotEnabled) {
			t.Fatalf("expected ErrGatewayNotEnabled, got %v", err)
		}
	})

	t.Run("card success carries auth headers and tenant header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer c6-token" {
				t.Fatalf("unexpected Authorization header %q", got)
			}
			if got := r.Header.Get("X-Tenant-ID"); got != "tenant-1" {
				t.Fatalf("unexpected X-Tenant-ID header %q", got)
			}
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["payment_method"] != "CREDIT_CARD" {
				t.Fatalf("unexpected payment_method: %v", body["payment_method"])
			}
			card := body["card_data"].(map[string]any)
			if card["installments"] != float64(1) {
				t.Fatalf("expected single installment, got %v", card["installments"])
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"payment_id":         "c6-pay-1",
				"status":             "SUCCESS",
				"authorization_code": "AUTH123",
				"nsu":                "NSU456",
			})
		}))
		defer srv.Close()

		g := NewC6Gateway(c6TestConfig(srv.URL), zerolog.Nop())
		result, err := g.CreatePayment(context.Background(), entities.PaymentRequest{
			Amount:        99.9,
			PaymentMethod: entities.PaymentMethodCreditCard,
			CardData: &entities.CardData{
				HolderName:  "JO DOE",
				Number:      "4111111111111111",
				ExpiryMonth: "12",
				ExpiryYear:  "2030",
				CVV:         "123",
			},
		}, "tenant-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.GatewayPaymentID != "c6-pay-1" || result.AuthorizationCode != "AUTH123" || result.NSU != "NSU456" {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("tenant header does not leak into shared client", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 2 && r.Header.Get("X-Tenant-ID") != "" {
				t.Fatalf("tenant header leaked into status call")
			}
			if strings.HasPrefix(r.URL.Path, "/payments/") {
				_ = json.NewEncoder(w).Encode(map[string]any{"payment_id": "c6-pay-1", "status": "PENDING"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"payment_id": "c6-pay-1", "status": "PENDING"})
		}))
		defer srv.Close()

		g := NewC6Gateway(c6TestConfig(srv.URL), zerolog.Nop())
		if _, err := g.CreatePayment(context.Background(), entities.PaymentRequest{PaymentMethod: entities.PaymentMethodPix}, "tenant-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := g.GetPaymentStatus(context.Background(), "c6-pay-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("provider-level error body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"payment_id":    "c6-pay-1",
				"status":        "ERROR",
				"error_message": "card declined",
				"error_code":    "DECLINED",
			})
		}))
		defer srv.Close()

		g := NewC6Gateway(c6TestConfig(srv.URL), zerolog.Nop())
		_, err := g.CreatePayment(context.Background(), entities.PaymentRequest{PaymentMethod: entities.PaymentMethodCreditCard}, "tenant-1")
		var gatewayErr *interfaces.GatewayError
		if !errors.As(err, &gatewayErr) {
			t.Fatalf("expected GatewayError, got %v", err)
		}
		if gatewayErr.Code != "DECLINED" || gatewayErr.Message != "card declined" {
			t.Fatalf("unexpected error detail: %+v", gatewayErr)
		}
	})

	t.Run("missing payment_id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "PENDING"})
		}))
		defer srv.Close()

		g := NewC6Gateway(c6TestConfig(srv.URL), zerolog.Nop())
		_, err := g.CreatePayment(context.Background(), entities.PaymentRequest{PaymentMethod: entities.PaymentMethodPix}, "tenant-1")
		var gatewayErr *interfaces.GatewayError
		if !errors.As(err, &gatewayErr) {
			t.Fatalf("expected GatewayError, got %v", err)
		}
	})
}

func TestC6Gateway_ValidateWebhook(t *testing.T) {
	payload := []byte(`{"payment_id":"c6-pay-1","status":"PAID"}`)

	t.Run("valid signature", func(t *testing.T) {
		g := NewC6Gateway(c6TestConfig("http://unused"), zerolog.Nop())
		if !g.ValidateWebhook(signC6("c6-secret", payload), payload) {
			t.Fatalf("expected valid signature to pass")
		}
	})

	t.Run("signature case-insensitive", func(t *testing.T) {
		g := NewC6Gateway(c6TestConfig("http://unused"), zerolog.Nop())
		if !g.ValidateWebhook(strings.ToUpper(signC6("c6-secret", payload)), payload) {
			t.Fatalf("expected uppercase signature to pass")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		g := NewC6Gateway(c6TestConfig("http://unused"), zerolog.Nop())
		if g.ValidateWebhook(signC6("other", payload), payload) {
			t.Fatalf("expected wrong-secret signature to fail")
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		g := NewC6Gateway(c6TestConfig("http://unused"), zerolog.Nop())
		if g.ValidateWebhook(signC6("c6-secret", payload), []byte(`{"payment_id":"other"}`)) {
			t.Fatalf("expected tampered payload to fail")
		}
	})

	t.Run("missing secret rejects by default", func(t *testing.T) {
		cfg := c6TestConfig("http://unused")
		cfg.C6.WebhookSecret = ""
		g := NewC6Gateway(cfg, zerolog.Nop())
		if g.ValidateWebhook("whatever", payload) {
			t.Fatalf("expected missing secret to reject")
		}
	})
}

func TestC6Gateway_ProcessWebhook(t *testing.T) {
	g := NewC6Gateway(c6TestConfig("http://unused"), zerolog.Nop())

	t.Run("paid status", func(t *testing.T) {
		result, err := g.ProcessWebhook([]byte(`{"payment_id":"c6-pay-1","status":"PAID"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Ignore || result.GatewayPaymentID != "c6-pay-1" || result.NewStatus != entities.PaymentStatusPaid {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("unknown status is acknowledged", func(t *testing.T) {
		result, err := g.ProcessWebhook([]byte(`{"payment_id":"c6-pay-1","status":"BRAND_NEW"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Ignore {
			t.Fatalf("expected unknown status to be ignored: %+v", result)
		}
	})

	t.Run("malformed payload is acknowledged", func(t *testing.T) {
		result, err := g.ProcessWebhook([]byte(`not-json`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Ignore {
			t.Fatalf("expected malformed payload to be ignored: %+v", result)
		}
	})
}
