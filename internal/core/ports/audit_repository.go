package ports

import (
	"context"

	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/kernel"
)

// AuditRepository appends to and reads the audit trails of one shop's plans.
// Events are never updated or deleted individually.
type AuditRepository interface {
	Append(ctx context.Context, events ...audit.Event) error

	// ListByPlan returns a plan's events ordered by creation time, ties
	// broken by insertion order.
	ListByPlan(ctx context.Context, planID kernel.UUID) ([]audit.Event, error)
}
