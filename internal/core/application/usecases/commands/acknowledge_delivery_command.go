package commands

import (
	"errors"

	"splitship/internal/core/domain/model/kernel"
)

var ErrAcknowledgeDeliveryCommandIsNotConstructed = errors.New(
	"AcknowledgeDeliveryCommand must be created via NewAcknowledgeDeliveryCommand constructor",
)

// AcknowledgeDeliveryCommand records the partner's acknowledgement of a plan's delivery.
type AcknowledgeDeliveryCommand struct {
	planCommand
}

func NewAcknowledgeDeliveryCommand(shop kernel.Shop, planID kernel.UUID) (AcknowledgeDeliveryCommand, error) {
	base, err := newPlanCommand(shop, planID)
	if err != nil {
		return AcknowledgeDeliveryCommand{}, err
	}
	return AcknowledgeDeliveryCommand{planCommand: base}, nil
}

func (c AcknowledgeDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAcknowledgeDeliveryCommandIsNotConstructed)
}
