package audit

import (
	"fmt"

	"splitship/internal/pkg/errs"
)

// EventType names one kind of recorded transition.
type EventType string

const (
	SplitPlanCreated                          EventType = "split_plan.created"
	SplitPlanUpdated                          EventType = "split_plan.updated"
	SplitPlanFulfillmentInstructionsGenerated EventType = "split_plan.fulfillment_instructions_generated"
	SplitPlanReadyForFulfillment              EventType = "split_plan.ready_for_fulfillment"
	SplitPlanFulfilledPartial                 EventType = "split_plan.fulfilled_partial"
	SplitPlanFulfilledComplete                EventType = "split_plan.fulfilled_complete"
	SplitPlanDeliverySent                     EventType = "split_plan.delivery_sent"
	SplitPlanDeliveryRetried                  EventType = "split_plan.delivery_retried"
	SplitPlanDeliveryAcked                    EventType = "split_plan.delivery_acked"
	SplitPlanDeliveryFailed                   EventType = "split_plan.delivery_failed"
	OrderCreatedWebhook                       EventType = "order.created.webhook"
)

// EventTypes returns the closed vocabulary in declaration order.
func EventTypes() []EventType {
	return []EventType{
		SplitPlanCreated,
		SplitPlanUpdated,
		SplitPlanFulfillmentInstructionsGenerated,
		SplitPlanReadyForFulfillment,
		SplitPlanFulfilledPartial,
		SplitPlanFulfilledComplete,
		SplitPlanDeliverySent,
		SplitPlanDeliveryRetried,
		SplitPlanDeliveryAcked,
		SplitPlanDeliveryFailed,
		OrderCreatedWebhook,
	}
}

// Validate rejects any value outside the vocabulary.
func (t EventType) Validate() error {
	for _, known := range EventTypes() {
		if t == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("event type", fmt.Errorf("%q is not a known event type", string(t)))
}

func (t EventType) String() string {
	return string(t)
}

// IsDispatch reports whether the event records an actual partner dispatch attempt.
func (t EventType) IsDispatch() bool {
	return t == SplitPlanDeliverySent || t == SplitPlanDeliveryRetried
}
