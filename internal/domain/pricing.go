package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Tolerance absorbs client-side display rounding. Widening it reopens price tampering.
var Tolerance = decimal.New(1, -2)

// Storage limits: order_items.quantity is an int4 and amounts are numeric(10,2).
// Carts beyond them are rejected as invalid rather than failing in the database.
var (
	MaxLineQuantity = 1000
	MaxAmount       = decimal.RequireFromString("99999999.99")
)

// LineRequest is one untrusted cart line. ProductName, ProductPrice and
// DeliveryCharge are display hints and never used for pricing.
type LineRequest struct {
	ProductID      string
	ProductName    string
	Quantity       int
	ProductPrice   decimal.Decimal
	DeliveryCharge decimal.Decimal
}

// Totals are the three order amounts. Total is always Subtotal + Delivery.
type Totals struct {
	Subtotal decimal.Decimal
	Delivery decimal.Decimal
	Total    decimal.Decimal
}

// ProductLookup returns a catalog product or an error wrapping ErrNotFound.
type ProductLookup func(ctx context.Context, productID string) (*Product, error)

// PriceLines prices every line from the catalog and returns item snapshots plus
// the authoritative totals.
func PriceLines(ctx context.Context, lines []LineRequest, lookup ProductLookup) ([]OrderItem, Totals, error) {
	items := make([]OrderItem, 0, len(lines))
	subtotal := decimal.Zero
	delivery := decimal.Zero
	for _, line := range lines {
		p, err := lookup(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrProductNotFound) {
				return nil, Totals{}, &ProductError{ProductID: line.ProductID, ProductName: line.ProductName, Err: ErrProductNotFound}
			}
			return nil, Totals{}, err
		}
		if !p.IsAvailable {
			name := p.Name
			if name == "" {
				name = line.ProductName
			}
			return nil, Totals{}, &ProductError{ProductID: line.ProductID, ProductName: name, Err: ErrProductUnavailable}
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		subtotal = subtotal.Add(p.Price.Mul(qty))
		delivery = delivery.Add(p.DeliveryCharge.Mul(qty))

		id := p.ID
		items = append(items, OrderItem{
			ProductID:      &id,
			ProductName:    p.Name,
			ProductPrice:   p.Price,
			Quantity:       line.Quantity,
			DeliveryCharge: p.DeliveryCharge,
		})
	}
	return items, Totals{Subtotal: subtotal, Delivery: delivery, Total: subtotal.Add(delivery)}, nil
}

// Check compares claimed totals against t within Tolerance.
func (t Totals) Check(claimed Totals) error {
	checks := []struct {
		field      string
		claimed    decimal.Decimal
		calculated decimal.Decimal
	}{
		{"subtotal", claimed.Subtotal, t.Subtotal},
		{"delivery_total", claimed.Delivery, t.Delivery},
		{"total", claimed.Total, t.Total},
	}
	for _, c := range checks {
		if !WithinTolerance(c.claimed, c.calculated) {
			return &MismatchError{Field: c.field, Claimed: c.claimed, Calculated: c.calculated, Err: ErrTotalMismatch}
		}
	}
	return nil
}

// Equal reports exact equality of all three amounts.
func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) && t.Delivery.Equal(o.Delivery) && t.Total.Equal(o.Total)
}

func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}
