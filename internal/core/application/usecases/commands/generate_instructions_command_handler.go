package commands

import (
	"context"
	"time"

	"splitship/internal/core/domain/services"
	"splitship/internal/core/ports"
)

// GenerateInstructionsCommandHandler builds the instruction set from the
// current allocations and address book and records it on the plan.
type GenerateInstructionsCommandHandler struct {
	uowFactory  ports.UnitOfWorkFactory
	coordinator services.DeliveryCoordinator
}

func NewGenerateInstructionsCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	coordinator services.DeliveryCoordinator,
) GenerateInstructionsCommandHandler {
	return GenerateInstructionsCommandHandler{
		uowFactory:  uowFactory,
		coordinator: coordinator,
	}
}

// Handle returns the instructions exactly as recorded in the audit trail.
func (h GenerateInstructionsCommandHandler) Handle(
	ctx context.Context,
	cmd GenerateInstructionsCommand,
) ([]services.Instruction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	plans := uow.SplitPlanRepository(cmd.Shop())
	plan, err := plans.GetForUpdate(ctx, cmd.PlanID())
	if err != nil {
		return nil, err
	}

	recipients, err := loadRecipients(ctx, uow.RecipientRepository(cmd.Shop()), plan.RecipientIDs())
	if err != nil {
		return nil, err
	}

	instructions, err := h.coordinator.GenerateInstructions(plan, recipients, time.Now())
	if err != nil {
		return nil, err
	}

	if err = plans.Update(ctx, plan); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return instructions, nil
}
