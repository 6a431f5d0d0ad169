package interfaces

import (
	"context"
	"errors"

	"lunapay/internal/domain/entities"
)

// ErrStatusConflict is returned by UpdateStatus when the stored status no
// longer matches the expected prior status. Concurrent webhook deliveries
// for the same record serialize through this condition.
var ErrStatusConflict = errors.New("payment status conflict")

// IPaymentRepository abstracts DynamoDB persistence for Payment.
//
// Reads that miss return a zero Payment with no error; callers test ID.

type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	GetByGatewayPaymentID(ctx context.Context, gateway, gatewayPaymentID string) (entities.Payment, error)
	ListByTenantID(ctx context.Context, tenantID string) ([]entities.Payment, error)

	// UpdateStatus applies from -> to as a single conditional write and
	// returns the updated record, or ErrStatusConflict when the stored
	// status differs from from.
	UpdateStatus(ctx context.Context, id string, from, to entities.PaymentStatus, modifiedBy string) (entities.Payment, error)
}
