package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type stubProductWriter struct {
	items []domain.Product
	err   error
}

func (s *stubProductWriter) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,name,description,price,delivery_charge,is_available,image_url
00000000-0000-0000-0000-000000000001,Woven Basket,Hand woven seagrass,15.50,2.50,true,https://example.com/basket.jpg
,Linen Apron,,22,,,
,,,,,,
,Clay Mug,Wheel thrown,9.99,1.2,false,`

	w := &stubProductWriter{}
	count, err := NewCSVImporter(strings.NewReader(csvData), w).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 || len(w.items) != 3 {
		t.Fatalf("expected 3 products imported, got count=%d saved=%d", count, len(w.items))
	}

	basket := w.items[0]
	if basket.ID != "00000000-0000-0000-0000-000000000001" || basket.ImageURL != "https://example.com/basket.jpg" {
		t.Fatalf("unexpected basket %+v", basket)
	}
	if !basket.Price.Equal(decimal.RequireFromString("15.5")) || !basket.DeliveryCharge.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected basket amounts %s/%s", basket.Price, basket.DeliveryCharge)
	}

	apron := w.items[1]
	if !apron.IsAvailable || !apron.DeliveryCharge.IsZero() {
		t.Fatalf("expected defaults on apron, got %+v", apron)
	}
	if w.items[2].IsAvailable {
		t.Fatalf("expected mug to be unavailable")
	}
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"missing column": "name,description\nBasket,x",
		"bad price":      "name,price\nBasket,cheap",
		"no name":        "name,price\n,10",
		"bad flag":       "name,price,is_available\nBasket,10,maybe",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			w := &stubProductWriter{}
			if _, err := NewCSVImporter(strings.NewReader(data), w).Run(context.Background()); err == nil {
				t.Fatalf("expected error")
			}
			if len(w.items) != 0 {
				t.Fatalf("expected nothing written, got %d", len(w.items))
			}
		})
	}
}

func TestCSVImporter_StopsOnWriteError(t *testing.T) {
	w := &stubProductWriter{err: errors.New("db down")}
	count, err := NewCSVImporter(strings.NewReader("name,price\nBasket,10\nMug,5"), w).Run(context.Background())
	if err == nil || count != 0 {
		t.Fatalf("expected write error with zero count, got count=%d err=%v", count, err)
	}
}
