package commands

import (
	"errors"

	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/guard"
)

var ErrRetryFailedDeliveriesCommandIsNotConstructed = errors.New(
	"RetryFailedDeliveriesCommand must be created via NewRetryFailedDeliveriesCommand constructor",
)

// RetryFailedDeliveriesCommand sweeps plans whose delivery failed and that
// have made fewer than MaxAttempts attempts. At most BatchSize plans are
// retried per sweep.
type RetryFailedDeliveriesCommand struct { //nolint:recvcheck //using for validation
	maxAttempts int
	batchSize   int

	guard guard.ConstructorGuard
}

func NewRetryFailedDeliveriesCommand(maxAttempts, batchSize int) (RetryFailedDeliveriesCommand, error) {
	var maxErr, batchErr error
	if maxAttempts < 1 {
		maxErr = errs.NewValueIsOutOfRangeError("maxAttempts", maxAttempts, 1, "unbounded")
	}
	if batchSize < 1 {
		batchErr = errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}
	if err := errors.Join(maxErr, batchErr); err != nil {
		return RetryFailedDeliveriesCommand{}, err
	}

	return RetryFailedDeliveriesCommand{
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RetryFailedDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrRetryFailedDeliveriesCommandIsNotConstructed)
}

func (c RetryFailedDeliveriesCommand) MaxAttempts() int { return c.maxAttempts }
func (c RetryFailedDeliveriesCommand) BatchSize() int   { return c.batchSize }
