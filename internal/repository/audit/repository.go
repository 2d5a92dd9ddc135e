package audit

import (
	"context"

	"storefront/internal/domain"
)

// ListFilter narrows audit listing. An empty RecordID matches every record.
type ListFilter struct {
	RecordID string
	Limit    int
	Offset   int
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]domain.AuditEntry, error)
}
