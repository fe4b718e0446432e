package ports

import (
	"context"
	"time"

	"github.com/retailflow/plm-console/internal/core/domain"
)

// AdvanceRecord is one status-advance request and its outcome.
type AdvanceRecord struct {
	ProductID   int64
	SKU         string
	From        domain.ProductStatus
	To          domain.ProductStatus
	Username    string
	Succeeded   bool
	Error       string
	RequestedAt time.Time
}

// AdvanceAuditRepository stores the advance audit trail.
type AdvanceAuditRepository interface {
	InsertAdvance(ctx context.Context, rec AdvanceRecord) error
}
