package order

import (
	"context"

	"storefront/internal/domain"
)

// Catalog is the read side of the product catalog.
type Catalog interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// Validator recomputes cart totals from the catalog and rejects claims that
// differ by more than domain.Tolerance.
type Validator struct {
	catalog Catalog
}

func NewValidator(catalog Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate returns the calculated totals. Callers must persist these, never
// the claimed ones.
func (v *Validator) Validate(ctx context.Context, lines []domain.LineRequest, claimed domain.Totals) (domain.Totals, error) {
	_, calculated, err := domain.PriceLines(ctx, lines, v.catalog.Get)
	if err != nil {
		return domain.Totals{}, domain.WrapStorage("catalog lookup", err)
	}
	if err := calculated.Check(claimed); err != nil {
		return domain.Totals{}, err
	}
	return calculated, nil
}
