package commands

import (
	"errors"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/guard"
)

var ErrUpdateSplitPlanCommandIsNotConstructed = errors.New(
	"UpdateSplitPlanCommand must be created via NewUpdateSplitPlanCommand constructor",
)

// UpdateSplitPlanCommand replaces a plan's allocations. SourceLineRef and
// LineQuantity are optional; nil keeps the stored value.
type UpdateSplitPlanCommand struct { //nolint:recvcheck //using for validation
	shop          kernel.Shop
	planID        kernel.UUID
	sourceLineRef *string
	lineQuantity  *int
	allocations   []splitplan.AllocationInput

	guard guard.ConstructorGuard
}

func NewUpdateSplitPlanCommand(
	shop kernel.Shop,
	planID kernel.UUID,
	sourceLineRef *string,
	lineQuantity *int,
	allocations []splitplan.AllocationInput,
) (UpdateSplitPlanCommand, error) {
	if err := errors.Join(shop.Validate(), planID.Validate()); err != nil {
		return UpdateSplitPlanCommand{}, err
	}

	return UpdateSplitPlanCommand{
		shop:          shop,
		planID:        planID,
		sourceLineRef: sourceLineRef,
		lineQuantity:  lineQuantity,
		allocations:   append([]splitplan.AllocationInput(nil), allocations...),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateSplitPlanCommand) Validate() error {
	return c.guard.Validate(ErrUpdateSplitPlanCommandIsNotConstructed)
}

func (c UpdateSplitPlanCommand) Shop() kernel.Shop      { return c.shop }
func (c UpdateSplitPlanCommand) PlanID() kernel.UUID    { return c.planID }
func (c UpdateSplitPlanCommand) SourceLineRef() *string { return c.sourceLineRef }
func (c UpdateSplitPlanCommand) LineQuantity() *int     { return c.lineQuantity }

func (c UpdateSplitPlanCommand) Allocations() []splitplan.AllocationInput {
	return append([]splitplan.AllocationInput(nil), c.allocations...)
}
