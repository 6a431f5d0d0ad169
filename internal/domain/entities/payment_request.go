package entities

// PaymentRequest is the normalized creation request handed to the use case
// and forwarded to the gateway adapters. The HTTP layer maps its own DTO
// into this shape; adapters translate it into each provider's wire format.

type PaymentRequest struct {
	Amount        float64
	Description   string
	Gateway       string
	PaymentMethod PaymentMethod

	// PIX
	PixExpirationMinutes int

	// Card, when applicable
	CardData *CardData

	// Payer, required by some providers to open a charge
	Customer *CustomerData
}

type CardData struct {
	HolderName  string
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

type CustomerData struct {
	Name    string
	Email   string
	CpfCnpj string
	Phone   string
}
