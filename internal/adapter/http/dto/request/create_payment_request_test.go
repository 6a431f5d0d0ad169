package request

import (
	"testing"

	"lunapay/internal/domain/entities"
)

func TestCreatePaymentRequest_ToEntity(t *testing.T) {
	t.Run("normalizes gateway and method", func(t *testing.T) {
		req := CreatePaymentRequest{
			Amount:        55.5,
			Description:   "  plan  ",
			Gateway:       " asaas ",
			PaymentMethod: "pix",
		}

		entity := req.ToEntity()
		if entity.Gateway != "ASAAS" {
			t.Fatalf("expected normalized gateway, got %q", entity.Gateway)
		}
		if entity.PaymentMethod != entities.PaymentMethodPix {
			t.Fatalf("expected normalized method, got %q", entity.PaymentMethod)
		}
		if entity.Description != "plan" {
			t.Fatalf("expected trimmed description, got %q", entity.Description)
		}
		if entity.CardData != nil || entity.Customer != nil {
			t.Fatalf("optional blocks must stay nil when absent")
		}
	})

	t.Run("maps card and customer blocks", func(t *testing.T) {
		req := CreatePaymentRequest{
			Amount:        200,
			Description:   "upgrade",
			Gateway:       "c6",
			PaymentMethod: "credit_card",
			CardData: &CardDataRequest{
				HolderName:  "JO DOE",
				Number:      "4111111111111111",
				ExpiryMonth: "12",
				ExpiryYear:  "2030",
				CVV:         "123",
			},
			Customer: &CustomerRequest{
				Name:    "Jo Doe",
				Email:   "jo@example.com",
				CpfCnpj: "12345678909",
				Phone:   "11999990000",
			},
		}

		entity := req.ToEntity()
		if entity.PaymentMethod != entities.PaymentMethodCreditCard {
			t.Fatalf("unexpected method: %q", entity.PaymentMethod)
		}
		if entity.CardData == nil || entity.CardData.Number != "4111111111111111" {
			t.Fatalf("card data not mapped: %+v", entity.CardData)
		}
		if entity.Customer == nil || entity.Customer.CpfCnpj != "12345678909" {
			t.Fatalf("customer not mapped: %+v", entity.Customer)
		}
	})
}
