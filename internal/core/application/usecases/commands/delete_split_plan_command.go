package commands

import (
	"errors"

	"splitship/internal/core/domain/model/kernel"
)

var ErrDeleteSplitPlanCommandIsNotConstructed = errors.New(
	"DeleteSplitPlanCommand must be created via NewDeleteSplitPlanCommand constructor",
)

// DeleteSplitPlanCommand removes a plan together with its allocations and audit trail.
type DeleteSplitPlanCommand struct {
	planCommand
}

func NewDeleteSplitPlanCommand(shop kernel.Shop, planID kernel.UUID) (DeleteSplitPlanCommand, error) {
	base, err := newPlanCommand(shop, planID)
	if err != nil {
		return DeleteSplitPlanCommand{}, err
	}
	return DeleteSplitPlanCommand{planCommand: base}, nil
}

func (c DeleteSplitPlanCommand) Validate() error {
	return c.guard.Validate(ErrDeleteSplitPlanCommandIsNotConstructed)
}
