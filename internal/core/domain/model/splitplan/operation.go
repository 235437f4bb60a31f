package splitplan

import (
	"fmt"

	"splitship/internal/pkg/errs"
)

// LifecycleOperation names an operator-triggered lifecycle transition.
// Order correlation is not one: it only arrives through the correlation feed.
type LifecycleOperation string

const (
	MarkReadyForFulfillment  LifecycleOperation = "mark_ready"
	DeclareFulfilledPartial  LifecycleOperation = "fulfill_partial"
	DeclareFulfilledComplete LifecycleOperation = "fulfill_complete"
)

// ParseLifecycleOperation rejects unrecognized names with a ConflictError.
func ParseLifecycleOperation(s string) (LifecycleOperation, error) {
	switch op := LifecycleOperation(s); op {
	case MarkReadyForFulfillment, DeclareFulfilledPartial, DeclareFulfilledComplete:
		return op, nil
	default:
		return "", errs.NewConflictError("lifecycle operation", fmt.Sprintf("%q is not supported", s))
	}
}

// DeliveryOperation names a delivery-axis operation.
type DeliveryOperation string

const (
	DeliverySend  DeliveryOperation = "send"
	DeliveryRetry DeliveryOperation = "retry"
	DeliveryAck   DeliveryOperation = "ack"
	DeliveryFail  DeliveryOperation = "fail"
)

// ParseDeliveryOperation rejects unrecognized names with a ConflictError.
func ParseDeliveryOperation(s string) (DeliveryOperation, error) {
	switch op := DeliveryOperation(s); op {
	case DeliverySend, DeliveryRetry, DeliveryAck, DeliveryFail:
		return op, nil
	default:
		return "", errs.NewConflictError("delivery operation", fmt.Sprintf("%q is not supported", s))
	}
}

// IsDispatch reports whether the operation calls the partner.
func (op DeliveryOperation) IsDispatch() bool {
	return op == DeliverySend || op == DeliveryRetry
}
