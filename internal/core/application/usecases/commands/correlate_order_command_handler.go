package commands

import (
	"context"
	"time"

	"splitship/internal/core/ports"
)

// CorrelateOrderCommandHandler applies an order-correlation notification to
// every plan of the shop with the same orderRef or cartToken. Each matched
// plan records one order.created.webhook event. Plans are locked in creation
// order; if any plan rejects the notification nothing is written.
type CorrelateOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewCorrelateOrderCommandHandler(uowFactory ports.UnitOfWorkFactory) CorrelateOrderCommandHandler {
	return CorrelateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the number of plans correlated. Zero matches is not an error.
func (h CorrelateOrderCommandHandler) Handle(ctx context.Context, cmd CorrelateOrderCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	plans := uow.SplitPlanRepository(cmd.Shop())
	matched, err := plans.FindForCorrelation(ctx, cmd.OrderRef(), cmd.CartToken())
	if err != nil {
		return 0, err
	}

	now := time.Now()
	for _, plan := range matched {
		if err = plan.CorrelateOrder(cmd.OrderRef(), cmd.CartToken(), cmd.OrderName(), now); err != nil {
			return 0, err
		}
		if err = plans.Update(ctx, plan); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(matched), nil
}
