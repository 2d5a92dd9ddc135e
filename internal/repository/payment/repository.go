package payment

import (
	"context"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// CreateInput describes a payment row. Amount must already be the owning
// order's total.
type CreateInput struct {
	OrderID         string
	PaymentMethod   domain.PaymentMethod
	PaymentID       string
	Status          domain.PaymentStatus
	Amount          decimal.Decimal
	Currency        string
	ProviderDetails map[string]interface{}
	Actor           *string
}

// UpdateStatusInput is a compare-and-set on the payment status. From == To
// only merges ProviderDetails.
type UpdateStatusInput struct {
	ID              string
	From            domain.PaymentStatus
	To              domain.PaymentStatus
	ProviderDetails map[string]interface{}
	Actor           *string
}

// Result is a written payment plus the order when the write moved it to paid.
type Result struct {
	Payment   *domain.Payment
	PaidOrder *domain.Order
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*Result, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByProvider(ctx context.Context, method domain.PaymentMethod, providerID string) (*domain.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (*Result, error)
}
