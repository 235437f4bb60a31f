package splitplan

import (
	"fmt"

	"splitship/internal/pkg/errs"
)

// DeliveryStatus is the delivery axis of a split plan, independent of Status.
//
// State transitions:
//
//	Pending ──> Sent ──┬──> Acked
//	             ^     └──> Failed
//	             └──────────┘ (retry)
//
// Every dispatch (first send or retry) re-enters Sent. Nothing retries
// automatically.
type DeliveryStatus int

const (
	DeliveryUnknown DeliveryStatus = iota
	DeliveryPending
	DeliverySent
	DeliveryAcked
	DeliveryFailed
)

func getDeliveryStatusStrings() map[DeliveryStatus]string {
	return map[DeliveryStatus]string{
		DeliveryUnknown: "unknown",
		DeliveryPending: "pending",
		DeliverySent:    "sent",
		DeliveryAcked:   "acked",
		DeliveryFailed:  "failed",
	}
}

// ParseDeliveryStatus maps a wire name back to a DeliveryStatus.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	for status, name := range getDeliveryStatusStrings() {
		if name == s && status != DeliveryUnknown {
			return status, nil
		}
	}
	return DeliveryUnknown, errs.NewValueIsInvalidErrorWithCause(
		"delivery status is invalid",
		fmt.Errorf("%q is not a valid delivery status", s),
	)
}

func (s DeliveryStatus) Validate() error {
	if s <= DeliveryUnknown || s > DeliveryFailed {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery status is invalid",
			fmt.Errorf("%d is not a valid delivery status", s),
		)
	}
	return nil
}

func (s DeliveryStatus) String() string {
	if str, ok := getDeliveryStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValidateDispatch checks that a new dispatch attempt may start. Acked
// deliveries are closed.
func (s DeliveryStatus) ValidateDispatch() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s == DeliveryAcked {
		return errs.NewConflictError("delivery", "acked deliveries cannot be dispatched again")
	}
	return nil
}

// Acknowledge returns DeliveryAcked. Under AckPermissive any valid status is
// accepted; under AckRequiresSent only DeliverySent is.
func (s DeliveryStatus) Acknowledge(policy AckPolicy) (DeliveryStatus, error) {
	if err := s.outcomeAllowed(policy, "acknowledged"); err != nil {
		return DeliveryUnknown, err
	}
	return DeliveryAcked, nil
}

// Fail returns DeliveryFailed under the same policy as Acknowledge.
func (s DeliveryStatus) Fail(policy AckPolicy) (DeliveryStatus, error) {
	if err := s.outcomeAllowed(policy, "failed"); err != nil {
		return DeliveryUnknown, err
	}
	return DeliveryFailed, nil
}

func (s DeliveryStatus) outcomeAllowed(policy AckPolicy, verb string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if policy == AckRequiresSent && s != DeliverySent {
		return errs.NewConflictError("delivery", fmt.Sprintf("%s delivery cannot be %s", s, verb))
	}
	return nil
}
