package ports

import (
	"context"
	"errors"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
)

// ErrConcurrentModification is the cause of the errs.VersionIsInvalidError
// Update returns when the stored plan no longer matches the version or
// attempt counter the aggregate was loaded with.
var ErrConcurrentModification = errors.New("split plan was modified concurrently")

// SplitPlanRepository persists split plans of a single shop. A plan of
// another shop is reported exactly like a missing one.
type SplitPlanRepository interface {
	// Add inserts a new plan with its allocations and pending audit events.
	Add(ctx context.Context, plan *splitplan.SplitPlan) error

	// Update writes the plan if its stored version still matches, replaces
	// its allocations and appends its pending audit events. The delivery
	// attempt counter is advanced in storage, never overwritten.
	Update(ctx context.Context, plan *splitplan.SplitPlan) error

	// Get loads a plan without locking it.
	Get(ctx context.Context, id kernel.UUID) (*splitplan.SplitPlan, error)

	// GetForUpdate loads a plan and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*splitplan.SplitPlan, error)

	// FindForCorrelation locks and returns the plans matching orderRef, or
	// cartToken when it is not nil.
	FindForCorrelation(ctx context.Context, orderRef string, cartToken *string) ([]*splitplan.SplitPlan, error)

	// List returns the shop's plans, newest first.
	List(ctx context.Context, limit, offset int) ([]*splitplan.SplitPlan, error)

	// Delete removes a plan with its allocations and audit trail.
	Delete(ctx context.Context, id kernel.UUID) error
}

// PlanRef addresses one plan across shops.
type PlanRef struct {
	Shop kernel.Shop
	ID   kernel.UUID
}

// DeliveryQueue finds plans whose last delivery failed.
type DeliveryQueue interface {
	// FindFailedDeliveries returns up to limit plans with a failed delivery
	// and fewer than maxAttempts attempts, oldest failure first.
	FindFailedDeliveries(ctx context.Context, maxAttempts, limit int) ([]PlanRef, error)
}
