package request

import (
	"strings"

	"lunapay/internal/domain/entities"
)

type CardDataRequest struct {
	HolderName  string `json:"holder_name" binding:"required"`
	Number      string `json:"number" binding:"required"`
	ExpiryMonth string `json:"expiry_month" binding:"required"`
	ExpiryYear  string `json:"expiry_year" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
}

type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	CpfCnpj string `json:"cpf_cnpj"`
	Phone   string `json:"phone"`
}

// CreatePaymentRequest is the tenant-facing payload to open a charge.
// Gateway and payment_method are normalized to uppercase before routing.
type CreatePaymentRequest struct {
	Amount               float64          `json:"amount" binding:"required,gt=0"`
	Description          string           `json:"description" binding:"required"`
	Gateway              string           `json:"gateway" binding:"required"`
	PaymentMethod        string           `json:"payment_method" binding:"required"`
	PixExpirationMinutes int              `json:"pix_expiration_minutes"`
	CardData             *CardDataRequest `json:"card_data"`
	Customer             *CustomerRequest `json:"customer"`
}

func (r CreatePaymentRequest) ToEntity() entities.PaymentRequest {
	req := entities.PaymentRequest{
		Amount:               r.Amount,
		Description:          strings.TrimSpace(r.Description),
		Gateway:              strings.ToUpper(strings.TrimSpace(r.Gateway)),
		PaymentMethod:        entities.PaymentMethod(strings.ToUpper(strings.TrimSpace(r.PaymentMethod))),
		PixExpirationMinutes: r.PixExpirationMinutes,
	}
	if r.CardData != nil {
		req.CardData = &entities.CardData{
			HolderName:  r.CardData.HolderName,
			Number:      r.CardData.Number,
			ExpiryMonth: r.CardData.ExpiryMonth,
			ExpiryYear:  r.CardData.ExpiryYear,
			CVV:         r.CardData.CVV,
		}
	}
	if r.Customer != nil {
		req.Customer = &entities.CustomerData{
			Name:    r.Customer.Name,
			Email:   r.Customer.Email,
			CpfCnpj: r.Customer.CpfCnpj,
			Phone:   r.Customer.Phone,
		}
	}
	return req
}
