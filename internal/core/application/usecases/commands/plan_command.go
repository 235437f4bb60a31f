package commands

import (
	"errors"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/guard"
)

// planCommand addresses one plan of one shop. Commands that need nothing
// else embed it.
type planCommand struct {
	shop   kernel.Shop
	planID kernel.UUID

	guard guard.ConstructorGuard
}

func newPlanCommand(shop kernel.Shop, planID kernel.UUID) (planCommand, error) {
	if err := errors.Join(shop.Validate(), planID.Validate()); err != nil {
		return planCommand{}, err
	}
	return planCommand{shop: shop, planID: planID, guard: guard.NewConstructorGuard()}, nil
}

func (c planCommand) Shop() kernel.Shop   { return c.shop }
func (c planCommand) PlanID() kernel.UUID { return c.planID }
