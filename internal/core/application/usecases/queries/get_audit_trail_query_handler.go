package queries

import (
	"context"
	"fmt"

	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/core/ports"
)

// GetAuditTrailQueryHandler returns a plan's trail and replays it against the
// plan. Both reads run in one transaction so they see the same state.
type GetAuditTrailQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetAuditTrailQueryHandler(uowFactory ports.UnitOfWorkFactory) GetAuditTrailQueryHandler {
	return GetAuditTrailQueryHandler{uowFactory: uowFactory}
}

func (h GetAuditTrailQueryHandler) Handle(ctx context.Context, query GetAuditTrailQuery) (AuditTrailResponse, error) {
	if err := query.Validate(); err != nil {
		return AuditTrailResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AuditTrailResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	plan, err := uow.SplitPlanRepository(query.Shop()).Get(ctx, query.PlanID())
	if err != nil {
		return AuditTrailResponse{}, err
	}

	events, err := uow.AuditRepository(query.Shop()).ListByPlan(ctx, query.PlanID())
	if err != nil {
		return AuditTrailResponse{}, err
	}

	response := AuditTrailResponse{
		PlanID: plan.ID(),
		Events: make([]AuditEventResponse, 0, len(events)),
	}
	for _, ev := range events {
		response.Events = append(response.Events, AuditEventResponse{
			Sequence:  ev.Sequence(),
			EventType: ev.Type().String(),
			Payload:   ev.Body(),
			CreatedAt: ev.CreatedAt(),
		})
	}

	if problem := replayMismatch(plan, events); problem != "" {
		response.Problem = problem
	} else {
		response.Consistent = true
	}
	return response, nil
}

// replayMismatch returns "" when the trail replays to the plan's stored state.
func replayMismatch(plan *splitplan.SplitPlan, events []audit.Event) string {
	projection, err := audit.Replay(events)
	if err != nil {
		return err.Error()
	}

	key := ""
	if plan.IdempotencyKey() != nil {
		key = *plan.IdempotencyKey()
	}

	switch {
	case projection.Status != plan.Status().String():
		return fmt.Sprintf("replayed status %q, stored %q", projection.Status, plan.Status())
	case projection.DeliveryStatus != plan.DeliveryStatus().String():
		return fmt.Sprintf("replayed delivery status %q, stored %q", projection.DeliveryStatus, plan.DeliveryStatus())
	case projection.DeliveryAttempts != plan.DeliveryAttempts():
		return fmt.Sprintf("replayed %d delivery attempts, stored %d", projection.DeliveryAttempts, plan.DeliveryAttempts())
	case projection.IdempotencyKey != key:
		return fmt.Sprintf("replayed idempotency key %q, stored %q", projection.IdempotencyKey, key)
	}
	return ""
}
