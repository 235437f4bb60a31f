package commands

import (
	"errors"

	"splitship/internal/core/domain/model/kernel"
)

var ErrGenerateInstructionsCommandIsNotConstructed = errors.New(
	"GenerateInstructionsCommand must be created via NewGenerateInstructionsCommand constructor",
)

// GenerateInstructionsCommand asks for the per-recipient shipment
// instructions of a plan.
type GenerateInstructionsCommand struct {
	planCommand
}

func NewGenerateInstructionsCommand(shop kernel.Shop, planID kernel.UUID) (GenerateInstructionsCommand, error) {
	base, err := newPlanCommand(shop, planID)
	if err != nil {
		return GenerateInstructionsCommand{}, err
	}
	return GenerateInstructionsCommand{planCommand: base}, nil
}

func (c GenerateInstructionsCommand) Validate() error {
	return c.guard.Validate(ErrGenerateInstructionsCommandIsNotConstructed)
}
