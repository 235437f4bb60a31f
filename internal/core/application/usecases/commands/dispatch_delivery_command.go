package commands

import (
	"errors"
	"fmt"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/errs"
)

var ErrDispatchDeliveryCommandIsNotConstructed = errors.New(
	"DispatchDeliveryCommand must be created via NewDispatchDeliveryCommand constructor",
)

// DispatchDeliveryCommand requests one delivery attempt. send and retry take
// the same path; the operation only labels the request.
//
// Example:
//
//	cmd, err := NewDispatchDeliveryCommand(shop, planID, "retry")
//	result, err := handler.Handle(ctx, cmd)
//	if err == nil && !result.Sent() {
//	    // the plan is failed now, result.TransportErr tells why
//	}
type DispatchDeliveryCommand struct {
	planCommand
	operation splitplan.DeliveryOperation
}

func NewDispatchDeliveryCommand(shop kernel.Shop, planID kernel.UUID, operation string) (DispatchDeliveryCommand, error) {
	base, baseErr := newPlanCommand(shop, planID)
	op, opErr := splitplan.ParseDeliveryOperation(operation)
	if opErr == nil && !op.IsDispatch() {
		opErr = errs.NewConflictError("delivery operation", fmt.Sprintf("%q does not dispatch", operation))
	}
	if err := errors.Join(baseErr, opErr); err != nil {
		return DispatchDeliveryCommand{}, err
	}
	return DispatchDeliveryCommand{planCommand: base, operation: op}, nil
}

func (c DispatchDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrDispatchDeliveryCommandIsNotConstructed)
}

func (c DispatchDeliveryCommand) Operation() splitplan.DeliveryOperation {
	return c.operation
}
