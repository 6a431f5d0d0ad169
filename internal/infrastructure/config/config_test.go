package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.App.Port)
	}
	if cfg.DynamoDB.PaymentsTable != "payments" {
		t.Fatalf("expected default table payments, got %s", cfg.DynamoDB.PaymentsTable)
	}
	if cfg.Asaas.Enabled || cfg.C6.Enabled || cfg.MercadoPago.Enabled {
		t.Fatalf("gateways must be disabled by default")
	}
	if cfg.Webhooks.AllowUnverified {
		t.Fatalf("unverified webhooks must be disallowed by default")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LUNAPAY_ASAAS_ENABLED", "true")
	t.Setenv("LUNAPAY_ASAAS_API_KEY", "key-1")
	t.Setenv("LUNAPAY_ASAAS_BASE_URL", "https://api.asaas.test/v3")
	t.Setenv("LUNAPAY_ASAAS_WEBHOOK_SECRET", "sec-1")
	t.Setenv("LUNAPAY_ASAAS_ENVIRONMENT", "production")
	t.Setenv("LUNAPAY_ASAAS_TIMEOUT_SECONDS", "10")
	t.Setenv("LUNAPAY_APP_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Asaas.Enabled || cfg.Asaas.APIKey != "key-1" || cfg.Asaas.WebhookSecret != "sec-1" {
		t.Fatalf("unexpected asaas config: %+v", cfg.Asaas)
	}
	if cfg.Asaas.BaseURL != "https://api.asaas.test/v3" {
		t.Fatalf("unexpected base url: %s", cfg.Asaas.BaseURL)
	}
	if cfg.Asaas.Timeout() != 10*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Asaas.Timeout())
	}
	if !cfg.Asaas.IsProduction() {
		t.Fatalf("expected production environment")
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.App.LogLevel)
	}
}

func TestGatewayProperties_Timeout(t *testing.T) {
	var g GatewayProperties
	if g.Timeout() != 30*time.Second {
		t.Fatalf("zero timeout should fall back to 30s, got %v", g.Timeout())
	}
	g.TimeoutSeconds = -1
	if g.Timeout() != 30*time.Second {
		t.Fatalf("negative timeout should fall back to 30s, got %v", g.Timeout())
	}
}

func TestConfig_Gateway(t *testing.T) {
	cfg := &Config{
		Asaas:       GatewayProperties{APIKey: "a"},
		C6:          GatewayProperties{APIKey: "b"},
		MercadoPago: GatewayProperties{APIKey: "c"},
	}

	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"asaas", "a", true},
		{"ASAAS", "a", true},
		{" C6 ", "b", true},
		{"MercadoPago", "c", true},
		{"stripe", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		props, ok := cfg.Gateway(tc.name)
		if ok != tc.ok || props.APIKey != tc.want {
			t.Fatalf("Gateway(%q) = %q/%v, want %q/%v", tc.name, props.APIKey, ok, tc.want, tc.ok)
		}
	}
}

func TestConfig_AllowUnverifiedWebhooks(t *testing.T) {
	cfg := &Config{Webhooks: WebhookConfig{AllowUnverified: true}}

	if !cfg.AllowUnverifiedWebhooks(GatewayProperties{Environment: "sandbox"}) {
		t.Fatalf("expected sandbox to allow unverified when flag set")
	}
	if cfg.AllowUnverifiedWebhooks(GatewayProperties{Environment: "production"}) {
		t.Fatalf("production must never allow unverified")
	}
	if cfg.AllowUnverifiedWebhooks(GatewayProperties{Environment: "PRODUCTION"}) {
		t.Fatalf("environment comparison must be case-insensitive")
	}

	cfg.Webhooks.AllowUnverified = false
	if cfg.AllowUnverifiedWebhooks(GatewayProperties{Environment: "sandbox"}) {
		t.Fatalf("flag off must reject unverified everywhere")
	}
}
