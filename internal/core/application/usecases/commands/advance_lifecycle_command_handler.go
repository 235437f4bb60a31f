package commands

import (
	"context"
	"time"

	"splitship/internal/core/ports"
)

// AdvanceLifecycleCommandHandler applies one lifecycle operation under a row
// lock. The transition and its audit event commit together.
type AdvanceLifecycleCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewAdvanceLifecycleCommandHandler(uowFactory ports.UnitOfWorkFactory) AdvanceLifecycleCommandHandler {
	return AdvanceLifecycleCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h AdvanceLifecycleCommandHandler) Handle(ctx context.Context, cmd AdvanceLifecycleCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	plans := uow.SplitPlanRepository(cmd.Shop())
	plan, err := plans.GetForUpdate(ctx, cmd.PlanID())
	if err != nil {
		return err
	}

	if err = plan.ApplyLifecycle(cmd.Operation(), time.Now()); err != nil {
		return err
	}

	if err = plans.Update(ctx, plan); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
