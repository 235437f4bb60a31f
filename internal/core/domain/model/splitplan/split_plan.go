package splitplan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/guard"
)

var (
	// ErrSplitPlanIsNotConstructed is returned by Validate for a zero-value SplitPlan.
	ErrSplitPlanIsNotConstructed = errors.New("SplitPlan must be created via NewSplitPlan or RestoreSplitPlan")

	// ErrAttemptOutOfOrder is returned when a dispatch outcome is recorded for
	// an attempt other than the next one.
	ErrAttemptOutOfOrder = errors.New("dispatch attempt is out of order")
)

// SplitPlan distributes one order line's quantity across recipients and
// tracks the plan through two independent axes: its lifecycle Status and its
// DeliveryStatus towards the fulfillment partner.
//
// Invariants held after every successful method call:
//   - the allocation quantities sum to lineQuantity
//   - sourceLineRef does not change once the plan has left Draft
//   - lineQuantity does not change once an order is correlated
//   - deliveryAttempts only grows, by one per dispatch attempt
//   - updatedAt never moves backwards
//
// Every accepted mutation appends exactly one audit event to the pending
// list. The repository persists those events in the same transaction as
// the plan row and then calls MarkPersisted.
type SplitPlan struct {
	id            kernel.UUID
	shop          kernel.Shop
	sourceLineRef string
	lineQuantity  int
	allocations   []Allocation

	orderRef  *string
	orderName *string
	cartToken *string

	status            Status
	deliveryStatus    DeliveryStatus
	deliveryAttempts  int
	idempotencyKey    *string
	lastDeliveryAt    *time.Time
	lastDeliveryError *string

	createdAt time.Time
	updatedAt time.Time

	// version and persistedAttempts describe the row the plan was loaded from.
	version           int64
	persistedAttempts int

	pendingEvents []audit.Event

	guard guard.ConstructorGuard
}

// Snapshot carries every persisted field of a plan, for RestoreSplitPlan.
type Snapshot struct {
	ID                kernel.UUID
	Shop              kernel.Shop
	SourceLineRef     string
	LineQuantity      int
	Allocations       []Allocation
	OrderRef          *string
	OrderName         *string
	CartToken         *string
	Status            Status
	DeliveryStatus    DeliveryStatus
	DeliveryAttempts  int
	IdempotencyKey    *string
	LastDeliveryAt    *time.Time
	LastDeliveryError *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int64
}

// allocationBody and definitionBody describe the editable part of a plan in
// created and updated events.
type allocationBody struct {
	RecipientID string `json:"recipientId"`
	Quantity    int    `json:"quantity"`
}

type definitionBody struct {
	SourceLineRef string           `json:"sourceLineRef"`
	LineQuantity  int              `json:"lineQuantity"`
	Allocations   []allocationBody `json:"allocations"`
}

type createdBody struct {
	audit.CreatedBody
	definitionBody
	CartToken *string `json:"cartToken"`
}

type updatedBody struct {
	Previous definitionBody `json:"previous"`
	Next     definitionBody `json:"next"`
}

type orderCorrelatedBody struct {
	audit.Transition
	OrderRef  string  `json:"orderRef"`
	CartToken *string `json:"cartToken"`
	OrderName *string `json:"orderName"`
}

type instructionsBody struct {
	Instructions any `json:"instructions"`
}

// NewSplitPlan creates a Draft plan with pending delivery. The allocations
// are validated against lineQuantity and every problem is reported in one
// *errs.ValidationError. cartToken may be nil.
func NewSplitPlan(
	shop kernel.Shop,
	sourceLineRef string,
	lineQuantity int,
	inputs []AllocationInput,
	cartToken *string,
	now time.Time,
) (*SplitPlan, error) {
	p := &SplitPlan{
		id:             kernel.NewUUID(),
		status:         Draft,
		deliveryStatus: DeliveryPending,
		createdAt:      now.UTC(),
		updatedAt:      now.UTC(),
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setShop(shop),
		p.setSourceLineRef(sourceLineRef),
	); err != nil {
		return nil, err
	}

	allocations, err := ParseAllocations(lineQuantity, inputs)
	if err != nil {
		return nil, err
	}
	p.lineQuantity = lineQuantity
	p.allocations = allocations
	p.cartToken = optional(cartToken)

	body := createdBody{
		CreatedBody: audit.CreatedBody{
			Status:         p.status.String(),
			DeliveryStatus: p.deliveryStatus.String(),
		},
		definitionBody: p.definition(),
		CartToken:      p.cartToken,
	}
	if err := p.record(audit.SplitPlanCreated, body, now); err != nil {
		return nil, err
	}
	return p, nil
}

// RestoreSplitPlan rebuilds a persisted plan. It refuses snapshots that
// break the allocation invariant.
func RestoreSplitPlan(s Snapshot) (*SplitPlan, error) {
	p := &SplitPlan{
		lineQuantity:      s.LineQuantity,
		allocations:       append([]Allocation(nil), s.Allocations...),
		orderRef:          optional(s.OrderRef),
		orderName:         optional(s.OrderName),
		cartToken:         optional(s.CartToken),
		status:            s.Status,
		deliveryStatus:    s.DeliveryStatus,
		deliveryAttempts:  s.DeliveryAttempts,
		idempotencyKey:    optional(s.IdempotencyKey),
		lastDeliveryAt:    s.LastDeliveryAt,
		lastDeliveryError: s.LastDeliveryError,
		createdAt:         s.CreatedAt.UTC(),
		updatedAt:         s.UpdatedAt.UTC(),
		version:           s.Version,
		persistedAttempts: s.DeliveryAttempts,
		guard:             guard.NewConstructorGuard(),
	}

	var attemptsErr error
	if s.DeliveryAttempts < 0 {
		attemptsErr = errs.NewValueIsOutOfRangeError("delivery attempts", s.DeliveryAttempts, 0, "unbounded")
	}

	if err := errors.Join(
		p.setID(s.ID),
		p.setShop(s.Shop),
		p.setSourceLineRef(s.SourceLineRef),
		s.Status.Validate(),
		s.DeliveryStatus.Validate(),
		attemptsErr,
		Validate(s.LineQuantity, allocationInputs(s.Allocations)).Err(),
	); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *SplitPlan) ID() kernel.UUID                { return p.id }
func (p *SplitPlan) Shop() kernel.Shop              { return p.shop }
func (p *SplitPlan) SourceLineRef() string          { return p.sourceLineRef }
func (p *SplitPlan) LineQuantity() int              { return p.lineQuantity }
func (p *SplitPlan) OrderRef() *string              { return p.orderRef }
func (p *SplitPlan) OrderName() *string             { return p.orderName }
func (p *SplitPlan) CartToken() *string             { return p.cartToken }
func (p *SplitPlan) Status() Status                 { return p.status }
func (p *SplitPlan) DeliveryStatus() DeliveryStatus { return p.deliveryStatus }
func (p *SplitPlan) DeliveryAttempts() int          { return p.deliveryAttempts }
func (p *SplitPlan) IdempotencyKey() *string        { return p.idempotencyKey }
func (p *SplitPlan) LastDeliveryAt() *time.Time     { return p.lastDeliveryAt }
func (p *SplitPlan) LastDeliveryError() *string     { return p.lastDeliveryError }
func (p *SplitPlan) CreatedAt() time.Time           { return p.createdAt }
func (p *SplitPlan) UpdatedAt() time.Time           { return p.updatedAt }

// Version is the row version the plan was loaded with, 0 for a new plan.
func (p *SplitPlan) Version() int64 { return p.version }

// PersistedDeliveryAttempts is the attempt counter as last stored.
func (p *SplitPlan) PersistedDeliveryAttempts() int { return p.persistedAttempts }

// Allocations returns a copy of the allocations in their stored order.
func (p *SplitPlan) Allocations() []Allocation {
	return append([]Allocation(nil), p.allocations...)
}

// AllocatedQuantity is the sum of all allocation quantities.
func (p *SplitPlan) AllocatedQuantity() int {
	return sumQuantities(p.allocations)
}

// RecipientIDs lists the allocated recipients in allocation order.
func (p *SplitPlan) RecipientIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(p.allocations))
	for i, a := range p.allocations {
		ids[i] = a.recipientID
	}
	return ids
}

// PendingEvents returns the audit events recorded since the last MarkPersisted.
func (p *SplitPlan) PendingEvents() []audit.Event {
	return append([]audit.Event(nil), p.pendingEvents...)
}

// MarkPersisted is called by the repository once the row and its pending
// events are written at the given version.
func (p *SplitPlan) MarkPersisted(version int64) {
	p.version = version
	p.persistedAttempts = p.deliveryAttempts
	p.pendingEvents = nil
}

func (p *SplitPlan) Validate() error {
	if p == nil {
		return ErrSplitPlanIsNotConstructed
	}
	return p.guard.Validate(ErrSplitPlanIsNotConstructed)
}

// Update replaces the allocations and, optionally, the source line reference
// and line quantity. A nil sourceLineRef or lineQuantity keeps the current
// value. The new allocations are validated against the resulting line
// quantity.
func (p *SplitPlan) Update(sourceLineRef *string, lineQuantity *int, inputs []AllocationInput, now time.Time) error {
	nextRef := p.sourceLineRef
	if sourceLineRef != nil {
		ref := strings.TrimSpace(*sourceLineRef)
		if ref != p.sourceLineRef && p.status != Draft {
			return errs.NewConflictError("source line reference", fmt.Sprintf("cannot change once the plan is %s", p.status))
		}
		nextRef = ref
	}
	if nextRef == "" {
		return errs.NewValueIsRequiredError("source line reference")
	}

	nextQuantity := p.lineQuantity
	if lineQuantity != nil {
		if *lineQuantity != p.lineQuantity && p.orderRef != nil {
			return errs.NewConflictError("line quantity", "cannot change once an order is correlated")
		}
		nextQuantity = *lineQuantity
	}

	allocations, err := ParseAllocations(nextQuantity, inputs)
	if err != nil {
		return err
	}

	previous := p.definition()
	p.sourceLineRef, p.lineQuantity, p.allocations = nextRef, nextQuantity, allocations

	return p.record(audit.SplitPlanUpdated, updatedBody{Previous: previous, Next: p.definition()}, now)
}

// CorrelateOrder applies an order-correlation notification. The first call
// sets orderRef (and cartToken when the plan has none) and moves Draft to
// OrderCreated. Redelivery of the same order is accepted and recorded again.
// A different orderRef, or a cart token that contradicts the stored one, is
// a conflict.
func (p *SplitPlan) CorrelateOrder(orderRef string, cartToken, orderName *string, now time.Time) error {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return errs.NewValueIsRequiredError("order reference")
	}
	if p.orderRef != nil && *p.orderRef != orderRef {
		return errs.NewConflictError("order reference", fmt.Sprintf("plan is already correlated to order %s", *p.orderRef))
	}
	cartToken = optional(cartToken)
	if cartToken != nil && p.cartToken != nil && *p.cartToken != *cartToken {
		return errs.NewConflictError("cart token", "plan belongs to a different cart")
	}

	next, err := p.status.CorrelateOrder()
	if err != nil {
		return err
	}

	body := orderCorrelatedBody{
		Transition: audit.Transition{PreviousStatus: p.status.String(), NextStatus: next.String()},
		OrderRef:   orderRef,
		CartToken:  cartToken,
		OrderName:  optional(orderName),
	}
	if err := p.record(audit.OrderCreatedWebhook, body, now); err != nil {
		return err
	}

	p.status = next
	p.orderRef = &orderRef
	if p.cartToken == nil {
		p.cartToken = cartToken
	}
	if name := optional(orderName); name != nil {
		p.orderName = name
	}
	return nil
}

// RecordInstructionsGenerated appends the generated instruction set to the
// trail. It does not change any status.
func (p *SplitPlan) RecordInstructionsGenerated(instructions any, now time.Time) error {
	if err := p.requireAllocations(); err != nil {
		return err
	}
	return p.record(audit.SplitPlanFulfillmentInstructionsGenerated, instructionsBody{Instructions: instructions}, now)
}

// ApplyLifecycle performs a named lifecycle operation.
func (p *SplitPlan) ApplyLifecycle(op LifecycleOperation, now time.Time) error {
	var (
		next      Status
		eventType audit.EventType
		err       error
	)
	switch op {
	case MarkReadyForFulfillment:
		next, err = p.status.MarkReady(len(p.allocations))
		eventType = audit.SplitPlanReadyForFulfillment
	case DeclareFulfilledPartial:
		next, err = p.status.Fulfill(false)
		eventType = audit.SplitPlanFulfilledPartial
	case DeclareFulfilledComplete:
		next, err = p.status.Fulfill(true)
		eventType = audit.SplitPlanFulfilledComplete
	default:
		return errs.NewConflictError("lifecycle operation", fmt.Sprintf("%q is not supported", op))
	}
	if err != nil {
		return err
	}

	body := audit.Transition{PreviousStatus: p.status.String(), NextStatus: next.String()}
	if err := p.record(eventType, body, now); err != nil {
		return err
	}
	p.status = next
	return nil
}

// NextDispatch returns the attempt number and idempotency key for a new
// dispatch attempt, without changing the plan. The caller builds the payload
// with them, calls the partner and reports the outcome through
// RecordDispatched or RecordDispatchFailed.
func (p *SplitPlan) NextDispatch() (int, string, error) {
	if err := p.deliveryStatus.ValidateDispatch(); err != nil {
		return 0, "", err
	}
	if err := p.requireAllocations(); err != nil {
		return 0, "", err
	}
	attempt := p.deliveryAttempts + 1
	key, err := IdempotencyKey(p.shop, p.id, attempt)
	if err != nil {
		return 0, "", err
	}
	return attempt, key, nil
}

// RecordDispatched records a dispatch the partner accepted. The payload is
// stored as the event body, so the trail holds exactly what was sent.
func (p *SplitPlan) RecordDispatched(attempt int, key string, payload any, now time.Time) error {
	if err := p.checkAttempt(attempt, key); err != nil {
		return err
	}

	eventType := audit.SplitPlanDeliverySent
	if attempt > 1 {
		eventType = audit.SplitPlanDeliveryRetried
	}
	if err := p.record(eventType, payload, now); err != nil {
		return err
	}

	at := p.updatedAt
	p.deliveryStatus = DeliverySent
	p.deliveryAttempts = attempt
	p.idempotencyKey = &key
	p.lastDeliveryAt = &at
	p.lastDeliveryError = nil
	return nil
}

// RecordDispatchFailed records a dispatch attempt the partner client could
// not complete. The attempt still counts and its key is kept.
func (p *SplitPlan) RecordDispatchFailed(attempt int, key string, payload any, cause error, now time.Time) error {
	if err := p.checkAttempt(attempt, key); err != nil {
		return err
	}
	reason := describe(cause)

	body := audit.DispatchFailedBody{
		Transition:     audit.Transition{PreviousStatus: p.deliveryStatus.String(), NextStatus: DeliveryFailed.String()},
		Error:          reason,
		Attempt:        attempt,
		IdempotencyKey: key,
		Payload:        payload,
	}
	if err := p.record(audit.SplitPlanDeliveryFailed, body, now); err != nil {
		return err
	}

	at := p.updatedAt
	p.deliveryStatus = DeliveryFailed
	p.deliveryAttempts = attempt
	p.idempotencyKey = &key
	p.lastDeliveryAt = &at
	p.lastDeliveryError = &reason
	return nil
}

// Acknowledge records the partner's acknowledgement. The idempotency key
// and attempt counter are left as they are.
func (p *SplitPlan) Acknowledge(policy AckPolicy, now time.Time) error {
	next, err := p.deliveryStatus.Acknowledge(policy)
	if err != nil {
		return err
	}
	body := audit.Transition{PreviousStatus: p.deliveryStatus.String(), NextStatus: next.String()}
	if err := p.record(audit.SplitPlanDeliveryAcked, body, now); err != nil {
		return err
	}
	p.deliveryStatus = next
	return nil
}

// Fail records a delivery failure reported after the fact. It does not
// count as a dispatch attempt.
func (p *SplitPlan) Fail(policy AckPolicy, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("failure reason")
	}
	next, err := p.deliveryStatus.Fail(policy)
	if err != nil {
		return err
	}
	body := audit.DispatchFailedBody{
		Transition: audit.Transition{PreviousStatus: p.deliveryStatus.String(), NextStatus: next.String()},
		Error:      reason,
	}
	if err := p.record(audit.SplitPlanDeliveryFailed, body, now); err != nil {
		return err
	}
	p.deliveryStatus = next
	p.lastDeliveryError = &reason
	return nil
}

// record appends one audit event and advances updatedAt. It is the only
// place pendingEvents grows.
func (p *SplitPlan) record(eventType audit.EventType, body any, now time.Time) error {
	at := now.UTC()
	if at.Before(p.updatedAt) {
		at = p.updatedAt
	}
	ev, err := audit.NewEvent(p.shop, p.id, eventType, body, at)
	if err != nil {
		return err
	}
	p.pendingEvents = append(p.pendingEvents, ev)
	p.updatedAt = at
	return nil
}

func (p *SplitPlan) checkAttempt(attempt int, key string) error {
	if attempt != p.deliveryAttempts+1 {
		return fmt.Errorf("%w: got %d, next is %d", ErrAttemptOutOfOrder, attempt, p.deliveryAttempts+1)
	}
	expected, err := IdempotencyKey(p.shop, p.id, attempt)
	if err != nil {
		return err
	}
	if key != expected {
		return errs.NewValueIsInvalidErrorWithCause("idempotency key", fmt.Errorf("%q does not belong to attempt %d", key, attempt))
	}
	return nil
}

func (p *SplitPlan) requireAllocations() error {
	if len(p.allocations) == 0 {
		return errs.NewConflictError("allocations", "at least one recipient allocation is required")
	}
	return nil
}

func (p *SplitPlan) definition() definitionBody {
	allocations := make([]allocationBody, len(p.allocations))
	for i, a := range p.allocations {
		allocations[i] = allocationBody{RecipientID: a.recipientID.String(), Quantity: a.quantity}
	}
	return definitionBody{
		SourceLineRef: p.sourceLineRef,
		LineQuantity:  p.lineQuantity,
		Allocations:   allocations,
	}
}

func (p *SplitPlan) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *SplitPlan) setShop(shop kernel.Shop) error {
	if err := shop.Validate(); err != nil {
		return err
	}
	p.shop = shop
	return nil
}

func (p *SplitPlan) setSourceLineRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("source line reference")
	}
	p.sourceLineRef = ref
	return nil
}

func optional(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func describe(err error) string {
	if err == nil {
		return "unknown dispatch error"
	}
	return err.Error()
}
