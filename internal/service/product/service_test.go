package product

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

type stubRepo struct {
	byID     map[string]domain.Product
	upserted []domain.Product
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *stubRepo) ListAvailable(context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.byID {
		if p.IsAvailable {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.upserted = append(s.upserted, p)
	return &p, nil
}

const felt = "6f1c1c3e-9d3a-4b55-8a57-0c7a8f0e2b11"

func TestGetRejectsMalformedID(t *testing.T) {
	svc := New(&stubRepo{byID: map[string]domain.Product{}})
	if _, err := svc.Get(context.Background(), "1; DROP TABLE products"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetFound(t *testing.T) {
	svc := New(&stubRepo{byID: map[string]domain.Product{felt: {ID: felt, Name: "Felt Fox", IsAvailable: true}}})
	p, err := svc.Get(context.Background(), felt)
	if err != nil || p.Name != "Felt Fox" {
		t.Fatalf("unexpected product %+v err=%v", p, err)
	}
}

func TestUpsertValidates(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, domain.Product{Name: "  "}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}
	if _, err := svc.Upsert(ctx, domain.Product{Name: "Mug", Price: decimal.NewFromInt(-1)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative price, got %v", err)
	}
	if _, err := svc.Upsert(ctx, domain.Product{ID: "abc", Name: "Mug"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad id, got %v", err)
	}

	p, err := svc.Upsert(ctx, domain.Product{Name: " Mug ", Price: decimal.RequireFromString("9.999")})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if p.Name != "Mug" || !p.Price.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("unexpected normalized product %+v", p)
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("expected one upsert, got %d", len(repo.upserted))
	}
}
