package commands

import (
	"context"
	"time"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/core/ports"
)

// CreateSplitPlanCommandHandler validates the allocation partition, confirms
// every allocated recipient exists in the shop's address book and stores the
// new draft plan with its split_plan.created event.
type CreateSplitPlanCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewCreateSplitPlanCommandHandler(uowFactory ports.UnitOfWorkFactory) CreateSplitPlanCommandHandler {
	return CreateSplitPlanCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the new plan's ID. Allocation problems come back together
// as one errs.ValidationError and nothing is written.
func (h CreateSplitPlanCommandHandler) Handle(ctx context.Context, cmd CreateSplitPlanCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	plan, err := splitplan.NewSplitPlan(
		cmd.Shop(),
		cmd.SourceLineRef(),
		cmd.LineQuantity(),
		cmd.Allocations(),
		cmd.CartToken(),
		time.Now(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err = loadRecipients(ctx, uow.RecipientRepository(cmd.Shop()), plan.RecipientIDs()); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.SplitPlanRepository(cmd.Shop()).Add(ctx, plan); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return plan.ID(), nil
}
