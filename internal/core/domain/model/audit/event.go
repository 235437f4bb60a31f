package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/guard"

	"github.com/gowebpki/jcs"
)

// ErrEventIsNotConstructed is returned by Validate for a zero-value Event.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent")

// Event is one immutable audit record.
//
// Sequence is assigned by storage on insert and breaks ties between events
// sharing a CreatedAt; it is zero for events that are not yet persisted.
type Event struct {
	sequence  int64
	shop      kernel.Shop
	planID    kernel.UUID
	eventType EventType
	body      []byte
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewEvent snapshots body as RFC 8785 canonical JSON so two events built from
// equal values carry byte-identical bodies.
//
// Example:
//
//	ev, err := audit.NewEvent(shop, planID, audit.SplitPlanDeliveryAcked,
//	    map[string]string{"previousStatus": "sent", "nextStatus": "acked"}, now)
func NewEvent(shop kernel.Shop, planID kernel.UUID, eventType EventType, body any, createdAt time.Time) (Event, error) {
	raw, err := Canonicalize(body)
	if err != nil {
		return Event{}, err
	}
	return RestoreEvent(0, shop, planID, eventType, raw, createdAt)
}

// RestoreEvent rebuilds a persisted event. body must already be JSON.
func RestoreEvent(
	sequence int64,
	shop kernel.Shop,
	planID kernel.UUID,
	eventType EventType,
	body []byte,
	createdAt time.Time,
) (Event, error) {
	var bodyErr error
	if !json.Valid(body) {
		bodyErr = errs.NewValueIsInvalidError("event body")
	}
	var timeErr error
	if createdAt.IsZero() {
		timeErr = errs.NewValueIsRequiredError("event createdAt")
	}
	if err := errors.Join(shop.Validate(), planID.Validate(), eventType.Validate(), bodyErr, timeErr); err != nil {
		return Event{}, err
	}

	return Event{
		sequence:  sequence,
		shop:      shop,
		planID:    planID,
		eventType: eventType,
		body:      append([]byte(nil), body...),
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Canonicalize encodes v as canonical JSON.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode event body: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize event body: %w", err)
	}
	return canonical, nil
}

func (e Event) Sequence() int64      { return e.sequence }
func (e Event) Shop() kernel.Shop    { return e.shop }
func (e Event) PlanID() kernel.UUID  { return e.planID }
func (e Event) Type() EventType      { return e.eventType }
func (e Event) CreatedAt() time.Time { return e.createdAt }

// Body returns a copy of the canonical JSON body.
func (e Event) Body() json.RawMessage {
	return append(json.RawMessage(nil), e.body...)
}

// Decode unmarshals the body into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.body, v)
}

func (e Event) Validate() error {
	return e.guard.Validate(ErrEventIsNotConstructed)
}
