package commands

import (
	"context"
	"errors"
	"fmt"

	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/core/ports"
)

// RetryFailedDeliveriesResult summarizes one sweep.
type RetryFailedDeliveriesResult struct {
	Found   int
	Sent    int
	Failed  int
	Skipped int
}

// RetryFailedDeliveriesCommandHandler retries each failed delivery in its own
// unit of work, through the same path as an operator retry. A plan that is no
// longer failed once locked is skipped.
type RetryFailedDeliveriesCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	dispatcher DispatchDeliveryCommandHandler
}

func NewRetryFailedDeliveriesCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	dispatcher DispatchDeliveryCommandHandler,
) RetryFailedDeliveriesCommandHandler {
	return RetryFailedDeliveriesCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle keeps going when a single plan cannot be retried; those errors are
// joined into the returned error next to the summary.
func (h RetryFailedDeliveriesCommandHandler) Handle(
	ctx context.Context,
	cmd RetryFailedDeliveriesCommand,
) (RetryFailedDeliveriesResult, error) {
	if err := cmd.Validate(); err != nil {
		return RetryFailedDeliveriesResult{}, err
	}

	refs, err := h.findFailed(ctx, cmd)
	if err != nil {
		return RetryFailedDeliveriesResult{}, err
	}

	result := RetryFailedDeliveriesResult{Found: len(refs)}
	eligible := func(plan *splitplan.SplitPlan) bool {
		return plan.DeliveryStatus() == splitplan.DeliveryFailed && plan.DeliveryAttempts() < cmd.MaxAttempts()
	}

	var failures []error
	for _, ref := range refs {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}

		attempt, dispatched, dispatchErr := h.dispatcher.dispatch(ctx, ref.Shop, ref.ID, splitplan.DeliveryRetry, eligible)
		switch {
		case dispatchErr != nil:
			failures = append(failures, fmt.Errorf("retry %s/%s: %w", ref.Shop, ref.ID, dispatchErr))
		case !dispatched:
			result.Skipped++
		case attempt.Sent():
			result.Sent++
		default:
			result.Failed++
		}
	}

	return result, errors.Join(failures...)
}

func (h RetryFailedDeliveriesCommandHandler) findFailed(
	ctx context.Context,
	cmd RetryFailedDeliveriesCommand,
) ([]ports.PlanRef, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.DeliveryQueue().FindFailedDeliveries(ctx, cmd.MaxAttempts(), cmd.BatchSize())
}
