package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix shared by every LunaPay environment variable,
// e.g. LUNAPAY_ASAAS_API_KEY or LUNAPAY_DYNAMODB_ENDPOINT.
const EnvPrefix = "LUNAPAY"

const environmentProduction = "production"

// Config is the process-wide configuration. It is loaded once at startup
// and passed by reference to every constructor; it is never mutated after
// Load returns.

type Config struct {
	App         AppConfig
	DynamoDB    DynamoDBConfig
	Webhooks    WebhookConfig
	Asaas       GatewayProperties
	C6          GatewayProperties
	MercadoPago GatewayProperties
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Port     string `default:"8080"`
	LogLevel string `split_words:"true" default:"info"`
}

// DynamoDBConfig keeps the local-friendly defaults: DynamoDB Local does not
// validate credentials but the AWS SDK requires them to be present.
type DynamoDBConfig struct {
	Region          string `default:"us-east-1"`
	Endpoint        string
	AccessKeyID     string `split_words:"true" default:"local"`
	SecretAccessKey string `split_words:"true" default:"local"`
	PaymentsTable   string `split_words:"true" default:"payments"`
}

type WebhookConfig struct {
	// AllowUnverified lets a gateway with no webhook secret accept
	// deliveries unverified. It is only honored outside production.
	AllowUnverified bool `split_words:"true" default:"false"`
}

// GatewayProperties is the per-provider configuration block. An absent or
// disabled block makes the gateway behave as unavailable.
type GatewayProperties struct {
	Enabled        bool   `default:"false"`
	APIKey         string `split_words:"true"`
	APISecret      string `split_words:"true"`
	BaseURL        string `split_words:"true"`
	WebhookSecret  string `split_words:"true"`
	WalletID       string `split_words:"true"`
	Environment    string `default:"sandbox"`
	TimeoutSeconds int    `split_words:"true" default:"30"`
}

func (g GatewayProperties) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

func (g GatewayProperties) IsProduction() bool {
	return strings.EqualFold(g.Environment, environmentProduction)
}

// Gateway looks up a provider block by name, case-insensitively.
func (c *Config) Gateway(name string) (GatewayProperties, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "asaas":
		return c.Asaas, true
	case "c6":
		return c.C6, true
	case "mercadopago":
		return c.MercadoPago, true
	}
	return GatewayProperties{}, false
}

func (c *Config) IsGatewayEnabled(name string) bool {
	props, ok := c.Gateway(name)
	return ok && props.Enabled
}

// AllowUnverifiedWebhooks reports whether a gateway with no configured
// webhook secret may accept deliveries. Rejected outright in production.
func (c *Config) AllowUnverifiedWebhooks(props GatewayProperties) bool {
	return c.Webhooks.AllowUnverified && !props.IsProduction()
}
