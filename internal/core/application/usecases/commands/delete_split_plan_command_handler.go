package commands

import (
	"context"

	"splitship/internal/core/ports"
)

type DeleteSplitPlanCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewDeleteSplitPlanCommandHandler(uowFactory ports.UnitOfWorkFactory) DeleteSplitPlanCommandHandler {
	return DeleteSplitPlanCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h DeleteSplitPlanCommandHandler) Handle(ctx context.Context, cmd DeleteSplitPlanCommand) error {
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

	if err := uow.SplitPlanRepository(cmd.Shop()).Delete(ctx, cmd.PlanID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
