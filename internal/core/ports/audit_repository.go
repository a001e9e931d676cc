package ports

import (
	"context"

	"github.com/cse-motors/dealership/internal/core/domain"
)

// AuditRepository appends inventory events to the audit trail.
type AuditRepository interface {
	Record(ctx context.Context, event domain.InventoryEvent) error
}
