package commands

import (
	"context"
	"time"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/core/domain/services"
	"splitship/internal/core/ports"
	"splitship/internal/pkg/metrics"
)

// DispatchDeliveryCommandHandler performs one partner dispatch while holding
// the plan's row lock, so concurrent dispatches of one plan are serialized
// and each derives its own attempt number.
//
// The transaction is not bound to the caller's cancellation: once the
// partner has been called, the outcome is written even if the caller has
// gone away. The partner call itself still observes ctx.
type DispatchDeliveryCommandHandler struct {
	uowFactory  ports.UnitOfWorkFactory
	coordinator services.DeliveryCoordinator
	partner     ports.PartnerClient
}

func NewDispatchDeliveryCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	coordinator services.DeliveryCoordinator,
	partner ports.PartnerClient,
) DispatchDeliveryCommandHandler {
	return DispatchDeliveryCommandHandler{
		uowFactory:  uowFactory,
		coordinator: coordinator,
		partner:     partner,
	}
}

// Handle returns the attempt made. A partner failure is not an error here:
// it is recorded as a failed delivery and reported in the result.
func (h DispatchDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchDeliveryCommand,
) (services.DispatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.DispatchResult{}, err
	}

	result, _, err := h.dispatch(ctx, cmd.Shop(), cmd.PlanID(), cmd.Operation(), nil)
	return result, err
}

// dispatch runs one attempt in its own unit of work. When eligible is set and
// returns false for the locked plan, nothing is sent and dispatched is false.
func (h DispatchDeliveryCommandHandler) dispatch(
	ctx context.Context,
	shop kernel.Shop,
	planID kernel.UUID,
	operation splitplan.DeliveryOperation,
	eligible func(*splitplan.SplitPlan) bool,
) (result services.DispatchResult, dispatched bool, err error) {
	txCtx := context.WithoutCancel(ctx)

	uow := h.uowFactory.Create()
	if err = uow.Begin(txCtx); err != nil {
		return services.DispatchResult{}, false, err
	}

	defer func() {
		_ = uow.Rollback(txCtx)
	}()

	plans := uow.SplitPlanRepository(shop)
	plan, err := plans.GetForUpdate(ctx, planID)
	if err != nil {
		return services.DispatchResult{}, false, err
	}
	if eligible != nil && !eligible(plan) {
		return services.DispatchResult{}, false, nil
	}

	recipients, err := loadRecipients(ctx, uow.RecipientRepository(shop), plan.RecipientIDs())
	if err != nil {
		return services.DispatchResult{}, false, err
	}

	result, err = h.coordinator.Dispatch(ctx, plan, recipients, h.partner, time.Now())
	if err != nil {
		return services.DispatchResult{}, false, err
	}

	if err = plans.Update(txCtx, plan); err != nil {
		return services.DispatchResult{}, false, err
	}

	if err = uow.Commit(txCtx); err != nil {
		return services.DispatchResult{}, false, err
	}

	outcome := metrics.OutcomeSent
	if !result.Sent() {
		outcome = metrics.OutcomeFailed
	}
	metrics.DispatchTotal.WithLabelValues(string(operation), outcome).Inc()

	return result, true, nil
}
