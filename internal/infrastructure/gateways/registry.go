package gateways

import (
	"strings"

	"lunapay/internal/usecase/interfaces"
)

// GatewayRegistry is the closed set of provider adapters, built once at
// startup. Dispatch goes through a single switch so a new provider is one
// new case plus its adapter. Enablement is deliberately not kept here: it
// is a live-configuration question answered by each adapter.
type GatewayRegistry struct {
	asaas       interfaces.IPaymentGateway
	c6          interfaces.IPaymentGateway
	mercadoPago interfaces.IPaymentGateway
}

var _ interfaces.IGatewayRegistry = (*GatewayRegistry)(nil)

func NewGatewayRegistry(asaas, c6, mercadoPago interfaces.IPaymentGateway) *GatewayRegistry {
	return &GatewayRegistry{asaas: asaas, c6: c6, mercadoPago: mercadoPago}
}

// Resolve returns the adapter for a provider name. Accepts any casing, so
// the same lookup serves business calls (uppercase canonical names) and
// webhook URL path segments (lowercase).
func (r *GatewayRegistry) Resolve(name string) (interfaces.IPaymentGateway, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case GatewayNameAsaas:
		return r.asaas, r.asaas != nil
	case GatewayNameC6:
		return r.c6, r.c6 != nil
	case GatewayNameMercadoPago:
		return r.mercadoPago, r.mercadoPago != nil
	}
	return nil, false
}

// Names lists the canonical provider names the registry can resolve.
func (r *GatewayRegistry) Names() []string {
	return []string{GatewayNameAsaas, GatewayNameC6, GatewayNameMercadoPago}
}
