package audit

import (
	"errors"
	"fmt"
)

// ErrTrailIsInconsistent is returned when a trail cannot be replayed: it does
// not start with a creation event, or an event's recorded previous state
// differs from the state reached so far.
var ErrTrailIsInconsistent = errors.New("audit trail is inconsistent")

// Transition is the body of every status-changing event. For delivery events
// the statuses are delivery statuses; the event type tells the axes apart.
type Transition struct {
	PreviousStatus string `json:"previousStatus"`
	NextStatus     string `json:"nextStatus"`
}

// CreatedBody is the part of a creation event Replay needs.
type CreatedBody struct {
	Status         string `json:"status"`
	DeliveryStatus string `json:"deliveryStatus"`
}

// DispatchFailedBody is the body of a delivery_failed event. Attempt and
// IdempotencyKey are set only when the failure came from a dispatch attempt.
type DispatchFailedBody struct {
	Transition
	Error          string `json:"error"`
	Attempt        int    `json:"attempt,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	Payload        any    `json:"payload,omitempty"`
}

// dispatchBody is the slice of the payload contract Replay reads from
// delivery_sent and delivery_retried events.
type dispatchBody struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

// Projection is the plan state implied by a trail.
type Projection struct {
	Status           string
	DeliveryStatus   string
	DeliveryAttempts int
	IdempotencyKey   string
}

// Replay folds an ordered trail into the state it implies.
func Replay(events []Event) (Projection, error) {
	var p Projection
	if len(events) == 0 || events[0].Type() != SplitPlanCreated {
		return p, fmt.Errorf("%w: first event must be %s", ErrTrailIsInconsistent, SplitPlanCreated)
	}

	for i, ev := range events {
		if err := p.apply(ev); err != nil {
			return Projection{}, fmt.Errorf("%w: event %d (%s): %w", ErrTrailIsInconsistent, i, ev.Type(), err)
		}
	}
	return p, nil
}

func (p *Projection) apply(ev Event) error {
	switch ev.Type() {
	case SplitPlanCreated:
		if p.Status != "" {
			return errors.New("plan created twice")
		}
		var body CreatedBody
		if err := ev.Decode(&body); err != nil {
			return err
		}
		p.Status, p.DeliveryStatus = body.Status, body.DeliveryStatus

	case SplitPlanUpdated, SplitPlanFulfillmentInstructionsGenerated:
		// no status change

	case OrderCreatedWebhook, SplitPlanReadyForFulfillment, SplitPlanFulfilledPartial, SplitPlanFulfilledComplete:
		next, err := transition(ev, p.Status)
		if err != nil {
			return err
		}
		p.Status = next

	case SplitPlanDeliveryAcked:
		next, err := transition(ev, p.DeliveryStatus)
		if err != nil {
			return err
		}
		p.DeliveryStatus = next

	case SplitPlanDeliveryFailed:
		var body DispatchFailedBody
		if err := ev.Decode(&body); err != nil {
			return err
		}
		if body.PreviousStatus != p.DeliveryStatus {
			return fmt.Errorf("recorded previous status %q, replayed %q", body.PreviousStatus, p.DeliveryStatus)
		}
		p.DeliveryStatus = body.NextStatus
		if body.Attempt > 0 {
			p.DeliveryAttempts = body.Attempt
			p.IdempotencyKey = body.IdempotencyKey
		}

	case SplitPlanDeliverySent, SplitPlanDeliveryRetried:
		var body dispatchBody
		if err := ev.Decode(&body); err != nil {
			return err
		}
		p.DeliveryStatus = "sent"
		p.DeliveryAttempts++
		p.IdempotencyKey = body.IdempotencyKey
	}
	return nil
}

func transition(ev Event, current string) (string, error) {
	var body Transition
	if err := ev.Decode(&body); err != nil {
		return "", err
	}
	if body.PreviousStatus != current {
		return "", fmt.Errorf("recorded previous status %q, replayed %q", body.PreviousStatus, current)
	}
	return body.NextStatus, nil
}
