package interfaces

// IGatewayRegistry resolves a provider name to its adapter. Resolution is
// case-insensitive; enablement is not a registry property and is checked
// per call on the adapter itself.

type IGatewayRegistry interface {
	Resolve(name string) (IPaymentGateway, bool)
}
