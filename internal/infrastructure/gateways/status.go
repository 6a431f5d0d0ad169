package gateways

import (
	"strings"

	"lunapay/internal/domain/entities"
)

// Provider status vocabularies are mapped here and nowhere else: adding a
// new provider status code is a table edit, not a control-flow change.
// Status tables are total and default to PENDING; event tables return
// ok=false for anything that should be acknowledged without action.

var asaasStatusTable = map[string]entities.PaymentStatus{
	"CONFIRMED":              entities.PaymentStatusPaid,
	"RECEIVED":               entities.PaymentStatusPaid,
	"PENDING":                entities.PaymentStatusPending,
	"AWAITING_RISK_ANALYSIS": entities.PaymentStatusPending,
	"REFUNDED":               entities.PaymentStatusCanceled,
	"REFUND_REQUESTED":       entities.PaymentStatusCanceled,
	"OVERDUE":                entities.PaymentStatusFailed,
	"CHARGEBACK_REQUESTED":   entities.PaymentStatusFailed,
	"CHARGEBACK_DISPUTE":     entities.PaymentStatusFailed,
}

func mapAsaasStatus(status string) entities.PaymentStatus {
	if mapped, ok := asaasStatusTable[strings.ToUpper(strings.TrimSpace(status))]; ok {
		return mapped
	}
	return entities.PaymentStatusPending
}

// Asaas webhook events. PAYMENT_CREATED and the risk-analysis progress
// events are informational while the charge is still open.
var asaasEventTable = map[string]entities.PaymentStatus{
	"PAYMENT_CREATED":                   entities.PaymentStatusPending,
	"PAYMENT_AWAITING_RISK_ANALYSIS":    entities.PaymentStatusPending,
	"PAYMENT_APPROVED_BY_RISK_ANALYSIS": entities.PaymentStatusPending,
	"PAYMENT_REPROVED_BY_RISK_ANALYSIS": entities.PaymentStatusFailed,
	"PAYMENT_CONFIRMED":                 entities.PaymentStatusPaid,
	"PAYMENT_RECEIVED":                  entities.PaymentStatusPaid,
	"PAYMENT_OVERDUE":                   entities.PaymentStatusFailed,
	"PAYMENT_DELETED":                   entities.PaymentStatusCanceled,
	"PAYMENT_REFUNDED":                  entities.PaymentStatusCanceled,
}

func mapAsaasEvent(event string) (entities.PaymentStatus, bool) {
	mapped, ok := asaasEventTable[strings.ToUpper(strings.TrimSpace(event))]
	return mapped, ok
}

var c6StatusTable = map[string]entities.PaymentStatus{
	"SUCCESS":         entities.PaymentStatusPaid,
	"PAID":            entities.PaymentStatusPaid,
	"CONFIRMED":       entities.PaymentStatusPaid,
	"PENDING":         entities.PaymentStatusPending,
	"WAITING_PAYMENT": entities.PaymentStatusPending,
	"CANCELLED":       entities.PaymentStatusCanceled,
	"REFUNDED":        entities.PaymentStatusCanceled,
	"FAILED":          entities.PaymentStatusFailed,
	"ERROR":           entities.PaymentStatusFailed,
}

func mapC6Status(status string) entities.PaymentStatus {
	if mapped, ok := c6StatusTable[strings.ToUpper(strings.TrimSpace(status))]; ok {
		return mapped
	}
	return entities.PaymentStatusPending
}

// C6 webhooks carry a status string rather than an event name. Unknown
// values are ignored instead of defaulting, so a vocabulary addition on the
// provider side cannot downgrade a local record.
func mapC6WebhookStatus(status string) (entities.PaymentStatus, bool) {
	mapped, ok := c6StatusTable[strings.ToUpper(strings.TrimSpace(status))]
	return mapped, ok
}

var mercadoPagoStatusTable = map[string]entities.PaymentStatus{
	"approved":     entities.PaymentStatusPaid,
	"pending":      entities.PaymentStatusPending,
	"in_process":   entities.PaymentStatusPending,
	"authorized":   entities.PaymentStatusPending,
	"rejected":     entities.PaymentStatusFailed,
	"cancelled":    entities.PaymentStatusCanceled,
	"refunded":     entities.PaymentStatusCanceled,
	"charged_back": entities.PaymentStatusCanceled,
}

func mapMercadoPagoStatus(status string) entities.PaymentStatus {
	if mapped, ok := mercadoPagoStatusTable[strings.ToLower(strings.TrimSpace(status))]; ok {
		return mapped
	}
	return entities.PaymentStatusPending
}
