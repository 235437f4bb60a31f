package commands

import (
	"errors"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
)

var ErrAdvanceLifecycleCommandIsNotConstructed = errors.New(
	"AdvanceLifecycleCommand must be created via NewAdvanceLifecycleCommand constructor",
)

// AdvanceLifecycleCommand names an operator lifecycle operation. Unknown
// operation names are rejected with errs.ConflictError.
//
// Example:
//
//	cmd, err := NewAdvanceLifecycleCommand(shop, planID, "mark_ready")
type AdvanceLifecycleCommand struct {
	planCommand
	operation splitplan.LifecycleOperation
}

func NewAdvanceLifecycleCommand(shop kernel.Shop, planID kernel.UUID, operation string) (AdvanceLifecycleCommand, error) {
	base, baseErr := newPlanCommand(shop, planID)
	op, opErr := splitplan.ParseLifecycleOperation(operation)
	if err := errors.Join(baseErr, opErr); err != nil {
		return AdvanceLifecycleCommand{}, err
	}
	return AdvanceLifecycleCommand{planCommand: base, operation: op}, nil
}

func (c AdvanceLifecycleCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceLifecycleCommandIsNotConstructed)
}

func (c AdvanceLifecycleCommand) Operation() splitplan.LifecycleOperation {
	return c.operation
}
