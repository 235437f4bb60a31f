package splitplan

import (
	"fmt"

	"splitship/internal/pkg/errs"
)

// Status is the lifecycle axis of a split plan.
//
// State transitions:
//
//	Draft ──> OrderCreated ──> ReadyForFulfillment ──┬──> FulfilledPartial
//	  │                              ^               └──> FulfilledComplete
//	  └──────────────────────────────┘
//
// Draft and OrderCreated may both be marked ready. From ReadyForFulfillment
// either fulfilled state may be declared, and re-declared, any number of
// times; no quantity reconciliation is performed.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Draft is the initial state; sourceLineRef and lineQuantity are editable.
	Draft

	// OrderCreated is entered only through order correlation.
	OrderCreated

	// ReadyForFulfillment is entered by an explicit operator action.
	ReadyForFulfillment

	// FulfilledPartial is an operator-declared terminal state.
	FulfilledPartial

	// FulfilledComplete is an operator-declared terminal state.
	FulfilledComplete
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:             "unknown",
		Draft:               "draft",
		OrderCreated:        "order_created",
		ReadyForFulfillment: "ready_for_fulfillment",
		FulfilledPartial:    "fulfilled_partial",
		FulfilledComplete:   "fulfilled_complete",
	}
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > FulfilledComplete {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsFulfilled reports whether a fulfillment has been declared.
func (s Status) IsFulfilled() bool {
	return s == FulfilledPartial || s == FulfilledComplete
}

// CorrelateOrder returns the status after an order-correlation notification.
//
// Draft advances to OrderCreated. OrderCreated stays (re-delivery of the same
// notification). Later states are kept: correlation never moves a plan back.
func (s Status) CorrelateOrder() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s == Draft {
		return OrderCreated, nil
	}
	return s, nil
}

// MarkReady returns ReadyForFulfillment when the plan has allocations and
// no fulfillment has been declared yet.
func (s Status) MarkReady(allocationCount int) (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsFulfilled() {
		return Unknown, errs.NewConflictError("lifecycle", fmt.Sprintf("%s cannot be marked ready for fulfillment", s))
	}
	if allocationCount == 0 {
		return Unknown, errs.NewConflictError("lifecycle", "at least one allocation is required to mark ready for fulfillment")
	}
	return ReadyForFulfillment, nil
}

// Fulfill returns FulfilledComplete or FulfilledPartial. Allowed from
// ReadyForFulfillment and from either fulfilled state.
func (s Status) Fulfill(complete bool) (Status, error) {
	if s != ReadyForFulfillment && !s.IsFulfilled() {
		return Unknown, errs.NewConflictError("lifecycle", fmt.Sprintf("%s is not ready for fulfillment", s))
	}
	if complete {
		return FulfilledComplete, nil
	}
	return FulfilledPartial, nil
}
