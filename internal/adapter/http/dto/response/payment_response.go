package response

import (
	"time"

	"lunapay/internal/domain/entities"
)

type PaymentResponse struct {
	ID            string  `json:"id"`
	TenantID      string  `json:"tenant_id"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	Gateway       string  `json:"gateway"`
	PaymentMethod string  `json:"payment_method"`

	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`

	PixQrCode       string     `json:"pix_qr_code,omitempty"`
	PixQrCodeBase64 string     `json:"pix_qr_code_base64,omitempty"`
	PixCopyPaste    string     `json:"pix_copy_paste,omitempty"`
	PixExpiresAt    *time.Time `json:"pix_expires_at,omitempty"`

	BoletoBarCode   string     `json:"boleto_bar_code,omitempty"`
	BoletoURL       string     `json:"boleto_url,omitempty"`
	BoletoExpiresAt *time.Time `json:"boleto_expires_at,omitempty"`

	AuthorizationCode string `json:"authorization_code,omitempty"`
	NSU               string `json:"nsu,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PaymentStatusResponse is the lightweight polling view.
type PaymentStatusResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Amount:            p.Amount,
		Description:       p.Description,
		Status:            p.Status.String(),
		Gateway:           p.Gateway,
		PaymentMethod:     p.PaymentMethod.String(),
		GatewayPaymentID:  p.GatewayPaymentID,
		PixQrCode:         p.PixQrCode,
		PixQrCodeBase64:   p.PixQrCodeBase64,
		PixCopyPaste:      p.PixCopyPaste,
		PixExpiresAt:      p.PixExpiresAt,
		BoletoBarCode:     p.BoletoBarCode,
		BoletoURL:         p.BoletoURL,
		BoletoExpiresAt:   p.BoletoExpiresAt,
		AuthorizationCode: p.AuthorizationCode,
		NSU:               p.NSU,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func FromPayments(payments []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}

func StatusFromPayment(p entities.Payment) PaymentStatusResponse {
	return PaymentStatusResponse{
		ID:               p.ID,
		Status:           p.Status.String(),
		GatewayPaymentID: p.GatewayPaymentID,
	}
}
