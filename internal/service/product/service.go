package product

import (
	"context"
	"strings"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"

	"github.com/google/uuid"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListAvailable(ctx)
}

// Get is the catalog lookup. Malformed ids are reported as ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, domain.InvalidInput("product name required")
	}
	if p.ID != "" {
		if _, err := uuid.Parse(p.ID); err != nil {
			return nil, domain.InvalidInput("product id %q is not a uuid", p.ID)
		}
	}
	if p.Price.IsNegative() || p.DeliveryCharge.IsNegative() {
		return nil, domain.InvalidInput("product %q has a negative amount", p.Name)
	}
	p.Price = p.Price.Round(2)
	p.DeliveryCharge = p.DeliveryCharge.Round(2)
	return s.repo.Upsert(ctx, p)
}
