package services

import (
	"context"
	"errors"
	"time"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/errs"
)

// Partner is the transport a DeliveryCoordinator dispatches through. A
// non-nil error means the partner did not accept the payload.
type Partner interface {
	Send(ctx context.Context, idempotencyKey string, payload []byte) error
}

// DispatchResult describes one dispatch attempt.
type DispatchResult struct {
	Attempt        int
	IdempotencyKey string
	Payload        FulfillmentPayload

	// TransportErr is the partner error of a failed attempt. It has already
	// been recorded on the plan as a failed delivery.
	TransportErr error
}

// Sent reports whether the partner accepted the attempt.
func (r DispatchResult) Sent() bool {
	return r.TransportErr == nil
}

// DeliveryCoordinator drives the delivery axis of a split plan: it builds
// recipient instructions and the partner payload, dispatches attempts and
// records acknowledgements and failures under its AckPolicy.
//
// Example usage:
//
//	coordinator := NewDeliveryCoordinator(splitplan.AckPermissive)
//	result, err := coordinator.Dispatch(ctx, plan, recipients, partner, time.Now())
//	if err != nil {
//	    // precondition failure, nothing was sent or recorded
//	}
//	if !result.Sent() {
//	    // the plan is now failed and result.TransportErr says why
//	}
type DeliveryCoordinator struct {
	policy splitplan.AckPolicy
}

func NewDeliveryCoordinator(policy splitplan.AckPolicy) DeliveryCoordinator {
	return DeliveryCoordinator{policy: policy}
}

// Policy returns the ack policy outcomes are recorded under.
func (c DeliveryCoordinator) Policy() splitplan.AckPolicy {
	return c.policy
}

// BuildInstructions pairs each allocation with its recipient's name and
// address, in allocation order. Every allocated recipient must be present in
// recipients and belong to the plan's shop.
func (c DeliveryCoordinator) BuildInstructions(plan *splitplan.SplitPlan, recipients []*recipient.Recipient) ([]Instruction, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]*recipient.Recipient, len(recipients))
	for _, r := range recipients {
		if r.Validate() != nil || !r.Shop().IsEqual(plan.Shop()) {
			continue
		}
		byID[r.ID()] = r
	}

	allocations := plan.Allocations()
	if len(allocations) == 0 {
		return nil, errs.NewConflictError("allocations", "at least one recipient allocation is required")
	}

	instructions := make([]Instruction, 0, len(allocations))
	var missing []error
	for _, a := range allocations {
		r, ok := byID[a.RecipientID()]
		if !ok {
			missing = append(missing, errs.NewObjectNotFoundError("recipient", a.RecipientID()))
			continue
		}
		instructions = append(instructions, Instruction{
			RecipientID:   r.ID().String(),
			RecipientName: r.Name(),
			Quantity:      a.Quantity(),
			Address:       addressPayload(r.Address()),
		})
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}
	return instructions, nil
}

// GenerateInstructions builds the instruction set and records it on the plan.
func (c DeliveryCoordinator) GenerateInstructions(
	plan *splitplan.SplitPlan,
	recipients []*recipient.Recipient,
	now time.Time,
) ([]Instruction, error) {
	instructions, err := c.BuildInstructions(plan, recipients)
	if err != nil {
		return nil, err
	}
	if err := plan.RecordInstructionsGenerated(instructions, now); err != nil {
		return nil, err
	}
	return instructions, nil
}

// BuildPayload assembles and validates the partner payload for one attempt.
func (c DeliveryCoordinator) BuildPayload(
	plan *splitplan.SplitPlan,
	recipients []*recipient.Recipient,
	idempotencyKey string,
) (FulfillmentPayload, error) {
	instructions, err := c.BuildInstructions(plan, recipients)
	if err != nil {
		return FulfillmentPayload{}, err
	}

	payload := FulfillmentPayload{
		SchemaVersion:  SchemaVersion,
		IdempotencyKey: idempotencyKey,
		SplitPlanID:    plan.ID().String(),
		Shop:           plan.Shop().String(),
		OrderID:        plan.OrderRef(),
		CartToken:      plan.CartToken(),
		SourceLineRef:  plan.SourceLineRef(),
		LineQuantity:   plan.LineQuantity(),
		Recipients:     instructions,
	}
	if err := payload.Validate(); err != nil {
		return FulfillmentPayload{}, err
	}
	return payload, nil
}

// Dispatch performs one send or retry: it derives the next attempt's key,
// builds the payload, calls the partner once and records the outcome on the
// plan. A partner error is not returned; it is recorded as a failed delivery
// and reported in DispatchResult.TransportErr. The returned error covers
// precondition failures only, in which case the plan is unchanged.
func (c DeliveryCoordinator) Dispatch(
	ctx context.Context,
	plan *splitplan.SplitPlan,
	recipients []*recipient.Recipient,
	partner Partner,
	now time.Time,
) (DispatchResult, error) {
	if err := plan.Validate(); err != nil {
		return DispatchResult{}, err
	}

	attempt, key, err := plan.NextDispatch()
	if err != nil {
		return DispatchResult{}, err
	}

	payload, err := c.BuildPayload(plan, recipients, key)
	if err != nil {
		return DispatchResult{}, err
	}
	body, err := payload.CanonicalJSON()
	if err != nil {
		return DispatchResult{}, err
	}

	result := DispatchResult{Attempt: attempt, IdempotencyKey: key, Payload: payload}
	if sendErr := partner.Send(ctx, key, body); sendErr != nil {
		result.TransportErr = sendErr
		return result, plan.RecordDispatchFailed(attempt, key, payload, sendErr, now)
	}
	return result, plan.RecordDispatched(attempt, key, payload, now)
}

// Acknowledge records the partner's acknowledgement under the coordinator's policy.
func (c DeliveryCoordinator) Acknowledge(plan *splitplan.SplitPlan, now time.Time) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	return plan.Acknowledge(c.policy, now)
}

// Fail records a delivery failure under the coordinator's policy.
func (c DeliveryCoordinator) Fail(plan *splitplan.SplitPlan, reason string, now time.Time) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	return plan.Fail(c.policy, reason, now)
}
