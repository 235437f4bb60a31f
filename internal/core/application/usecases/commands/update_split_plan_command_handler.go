package commands

import (
	"context"
	"time"

	"splitship/internal/core/ports"
)

// UpdateSplitPlanCommandHandler replaces a plan's allocations under a row
// lock and records split_plan.updated with the previous and next definition.
type UpdateSplitPlanCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewUpdateSplitPlanCommandHandler(uowFactory ports.UnitOfWorkFactory) UpdateSplitPlanCommandHandler {
	return UpdateSplitPlanCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h UpdateSplitPlanCommandHandler) Handle(ctx context.Context, cmd UpdateSplitPlanCommand) error {
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

	if err = plan.Update(cmd.SourceLineRef(), cmd.LineQuantity(), cmd.Allocations(), time.Now()); err != nil {
		return err
	}

	if _, err = loadRecipients(ctx, uow.RecipientRepository(cmd.Shop()), plan.RecipientIDs()); err != nil {
		return err
	}

	if err = plans.Update(ctx, plan); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
