package audit

import (
	"context"

	"storefront/internal/domain"
	auditrepo "storefront/internal/repository/audit"

	"github.com/google/uuid"
)

type Service struct {
	repo auditrepo.Repository
}

func New(repo auditrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns audit entries newest first. Elevated callers only.
func (s *Service) List(ctx context.Context, caller domain.Caller, recordID string, limit, offset int) ([]domain.AuditEntry, error) {
	if !caller.IsElevated() {
		return nil, domain.ErrForbidden
	}
	if recordID != "" {
		id, err := uuid.Parse(recordID)
		if err != nil {
			return nil, domain.InvalidInput("record id %q is not a uuid", recordID)
		}
		recordID = id.String()
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.repo.List(ctx, auditrepo.ListFilter{RecordID: recordID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, domain.WrapStorage("list audit logs", err)
	}
	return entries, nil
}
