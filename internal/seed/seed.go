package seed

import (
	"context"
	"fmt"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type productSeed struct {
	Name           string
	Description    string
	Price          string
	DeliveryCharge string
	Available      bool
}

var demoProducts = []productSeed{
	{Name: "Woven Seagrass Basket", Description: "Hand woven storage basket", Price: "15.50", DeliveryCharge: "2.50", Available: true},
	{Name: "Stoneware Mug", Description: "Wheel thrown, speckled glaze", Price: "18.00", DeliveryCharge: "3.95", Available: true},
	{Name: "Linen Apron", Description: "Stonewashed linen with deep pockets", Price: "32.00", DeliveryCharge: "0", Available: true},
	{Name: "Beeswax Candle Set", Description: "Three hand rolled candles", Price: "12.75", DeliveryCharge: "1.50", Available: true},
	{Name: "Patchwork Quilt", Description: "One of a kind, currently sold out", Price: "240.00", DeliveryCharge: "12.00", Available: false},
}

// Apply upserts a small handmade catalog for manual testing. Products are
// keyed by name, so running it twice is harmless.
func Apply(ctx context.Context, w ProductWriter) (int, error) {
	for i, s := range demoProducts {
		p := domain.Product{
			Name:           s.Name,
			Description:    s.Description,
			Price:          decimal.RequireFromString(s.Price),
			DeliveryCharge: decimal.RequireFromString(s.DeliveryCharge),
			IsAvailable:    s.Available,
		}
		if _, err := w.Upsert(ctx, p); err != nil {
			return i, fmt.Errorf("upsert product %q: %w", s.Name, err)
		}
	}
	return len(demoProducts), nil
}
