package order

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// CreateInput carries a validated checkout. Totals are the amounts the
// validator computed; Create re-prices Lines inside its transaction and
// refuses to persist if the catalog has moved since.
type CreateInput struct {
	UserID        *string
	Email         string
	FullName      string
	Address       domain.Address
	PaymentMethod domain.PaymentMethod
	Lines         []domain.LineRequest
	Totals        domain.Totals
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Items(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, actor *string) (*domain.Order, error)
	CountAnonymousSince(ctx context.Context, since time.Time) (int, error)
}
