package commands

import (
	"errors"
	"strings"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/guard"
)

var ErrCreateSplitPlanCommandIsNotConstructed = errors.New(
	"CreateSplitPlanCommand must be created via NewCreateSplitPlanCommand constructor",
)

// CreateSplitPlanCommand requests a new draft plan splitting one order line
// across recipients. The allocations are validated by the handler so that
// every violation is reported at once.
//
// Example:
//
//	cmd, err := NewCreateSplitPlanCommand(shop, "gid://line/1", 4, []splitplan.AllocationInput{
//	    {RecipientID: alice, Quantity: 2},
//	    {RecipientID: bob, Quantity: 2},
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	planID, err := handler.Handle(ctx, cmd)
type CreateSplitPlanCommand struct { //nolint:recvcheck //using for validation
	shop          kernel.Shop
	sourceLineRef string
	lineQuantity  int
	allocations   []splitplan.AllocationInput
	cartToken     *string

	guard guard.ConstructorGuard
}

// NewCreateSplitPlanCommand checks only the tenant scope. Line and
// allocation rules are enforced when the plan is built.
func NewCreateSplitPlanCommand(
	shop kernel.Shop,
	sourceLineRef string,
	lineQuantity int,
	allocations []splitplan.AllocationInput,
	cartToken *string,
) (CreateSplitPlanCommand, error) {
	if err := shop.Validate(); err != nil {
		return CreateSplitPlanCommand{}, err
	}

	return CreateSplitPlanCommand{
		shop:          shop,
		sourceLineRef: strings.TrimSpace(sourceLineRef),
		lineQuantity:  lineQuantity,
		allocations:   append([]splitplan.AllocationInput(nil), allocations...),
		cartToken:     cartToken,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c CreateSplitPlanCommand) Validate() error {
	return c.guard.Validate(ErrCreateSplitPlanCommandIsNotConstructed)
}

func (c CreateSplitPlanCommand) Shop() kernel.Shop     { return c.shop }
func (c CreateSplitPlanCommand) SourceLineRef() string { return c.sourceLineRef }
func (c CreateSplitPlanCommand) LineQuantity() int     { return c.lineQuantity }
func (c CreateSplitPlanCommand) CartToken() *string    { return c.cartToken }

func (c CreateSplitPlanCommand) Allocations() []splitplan.AllocationInput {
	return append([]splitplan.AllocationInput(nil), c.allocations...)
}
