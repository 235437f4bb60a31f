package commands

import (
	"errors"
	"strings"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/errs"
)

var ErrFailDeliveryCommandIsNotConstructed = errors.New(
	"FailDeliveryCommand must be created via NewFailDeliveryCommand constructor",
)

// FailDeliveryCommand records a delivery failure reported out of band.
type FailDeliveryCommand struct {
	planCommand
	reason string
}

func NewFailDeliveryCommand(shop kernel.Shop, planID kernel.UUID, reason string) (FailDeliveryCommand, error) {
	base, baseErr := newPlanCommand(shop, planID)

	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("reason")
	}

	if err := errors.Join(baseErr, reasonErr); err != nil {
		return FailDeliveryCommand{}, err
	}
	return FailDeliveryCommand{planCommand: base, reason: reason}, nil
}

func (c FailDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrFailDeliveryCommandIsNotConstructed)
}

func (c FailDeliveryCommand) Reason() string {
	return c.reason
}
