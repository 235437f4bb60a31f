package commands

import (
	"errors"
	"strings"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/guard"
)

var ErrCorrelateOrderCommandIsNotConstructed = errors.New(
	"CorrelateOrderCommand must be created via NewCorrelateOrderCommand constructor",
)

// CorrelateOrderCommand carries one order-correlation notification: the
// created order's reference plus the cart token and display name when known.
type CorrelateOrderCommand struct { //nolint:recvcheck //using for validation
	shop      kernel.Shop
	orderRef  string
	cartToken *string
	orderName *string

	guard guard.ConstructorGuard
}

func NewCorrelateOrderCommand(
	shop kernel.Shop,
	orderRef string,
	cartToken *string,
	orderName *string,
) (CorrelateOrderCommand, error) {
	cmd := CorrelateOrderCommand{
		shop:      shop,
		orderRef:  strings.TrimSpace(orderRef),
		cartToken: blankToNil(cartToken),
		orderName: blankToNil(orderName),
		guard:     guard.NewConstructorGuard(),
	}

	var refErr error
	if cmd.orderRef == "" {
		refErr = errs.NewValueIsRequiredError("orderRef")
	}
	if err := errors.Join(shop.Validate(), refErr); err != nil {
		return CorrelateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CorrelateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCorrelateOrderCommandIsNotConstructed)
}

func (c CorrelateOrderCommand) Shop() kernel.Shop  { return c.shop }
func (c CorrelateOrderCommand) OrderRef() string   { return c.orderRef }
func (c CorrelateOrderCommand) CartToken() *string { return c.cartToken }
func (c CorrelateOrderCommand) OrderName() *string { return c.orderName }

func blankToNil(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
