package queries

import (
	"encoding/json"
	"errors"
	"time"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/guard"
)

var ErrGetAuditTrailQueryIsNotConstructed = errors.New(
	"GetAuditTrailQuery must be created via NewGetAuditTrailQuery constructor",
)

// GetAuditTrailQuery reads a plan's audit trail and checks it against the
// plan's stored state.
type GetAuditTrailQuery struct {
	shop   kernel.Shop
	planID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetAuditTrailQuery(shop kernel.Shop, planID kernel.UUID) (GetAuditTrailQuery, error) {
	if err := errors.Join(shop.Validate(), planID.Validate()); err != nil {
		return GetAuditTrailQuery{}, err
	}
	return GetAuditTrailQuery{shop: shop, planID: planID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAuditTrailQuery) Validate() error {
	return q.guard.Validate(ErrGetAuditTrailQueryIsNotConstructed)
}

func (q GetAuditTrailQuery) Shop() kernel.Shop   { return q.shop }
func (q GetAuditTrailQuery) PlanID() kernel.UUID { return q.planID }

// AuditEventResponse is one recorded transition with its stored body.
type AuditEventResponse struct {
	Sequence  int64
	EventType string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// AuditTrailResponse holds the ordered trail. Consistent reports whether
// replaying it reproduces the plan's stored status, delivery status,
// attempt counter and idempotency key; Problem explains a mismatch.
type AuditTrailResponse struct {
	PlanID     kernel.UUID
	Events     []AuditEventResponse
	Consistent bool
	Problem    string
}
