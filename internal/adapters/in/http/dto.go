package http

import (
	"encoding/json"
	"time"

	"splitship/internal/core/application/usecases/commands"
	"splitship/internal/core/application/usecases/queries"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/core/domain/services"
)

// Error is the body of every non-2xx response. Errors lists each problem
// of a validation failure.
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

type Allocation struct {
	RecipientID string `json:"recipientId"`
	Quantity    int    `json:"quantity"`
}

type NewSplitPlan struct {
	SourceLineRef string       `json:"sourceLineRef"`
	LineQuantity  int          `json:"lineQuantity"`
	CartToken     *string      `json:"cartToken"`
	Allocations   []Allocation `json:"allocations"`
}

type SplitPlanUpdate struct {
	SourceLineRef *string      `json:"sourceLineRef"`
	LineQuantity  *int         `json:"lineQuantity"`
	Allocations   []Allocation `json:"allocations"`
}

type OrderCorrelation struct {
	OrderRef  string  `json:"orderRef"`
	CartToken *string `json:"cartToken"`
	OrderName *string `json:"orderName"`
}

type OperationRequest struct {
	Operation string `json:"operation"`
	Reason    string `json:"reason"`
}

type Address struct {
	Line1       string  `json:"line1"`
	Line2       *string `json:"line2"`
	City        string  `json:"city"`
	Province    *string `json:"province"`
	PostalCode  string  `json:"postalCode"`
	CountryCode string  `json:"countryCode"`
}

type NewRecipient struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

type Recipient struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

type Created struct {
	ID string `json:"id"`
}

type Correlated struct {
	Matched int `json:"matched"`
}

type SplitPlan struct {
	ID                string       `json:"id"`
	Shop              string       `json:"shop"`
	SourceLineRef     string       `json:"sourceLineRef"`
	LineQuantity      int          `json:"lineQuantity"`
	AllocatedQuantity int          `json:"allocatedQuantity"`
	Allocations       []Allocation `json:"allocations"`
	OrderRef          *string      `json:"orderRef"`
	OrderName         *string      `json:"orderName"`
	CartToken         *string      `json:"cartToken"`
	Status            string       `json:"status"`
	DeliveryStatus    string       `json:"deliveryStatus"`
	DeliveryAttempts  int          `json:"deliveryAttempts"`
	IdempotencyKey    *string      `json:"idempotencyKey"`
	LastDeliveryAt    *time.Time   `json:"lastDeliveryAt"`
	LastDeliveryError *string      `json:"lastDeliveryError"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

type SplitPlanSummary struct {
	ID               string    `json:"id"`
	SourceLineRef    string    `json:"sourceLineRef"`
	LineQuantity     int       `json:"lineQuantity"`
	OrderRef         *string   `json:"orderRef"`
	Status           string    `json:"status"`
	DeliveryStatus   string    `json:"deliveryStatus"`
	DeliveryAttempts int       `json:"deliveryAttempts"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Instructions struct {
	Instructions []services.Instruction `json:"instructions"`
}

// Dispatch reports a send or retry. Payload is the document handed to the
// partner; Error is set when the partner call failed.
type Dispatch struct {
	Attempt        int                         `json:"attempt"`
	IdempotencyKey string                      `json:"idempotencyKey"`
	Sent           bool                        `json:"sent"`
	Error          *string                     `json:"error"`
	Payload        services.FulfillmentPayload `json:"payload"`
	Plan           SplitPlan                   `json:"plan"`
}

type AuditEvent struct {
	Sequence  int64           `json:"sequence"`
	EventType string          `json:"eventType"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

type AuditTrail struct {
	PlanID     string       `json:"planId"`
	Consistent bool         `json:"consistent"`
	Problem    string       `json:"problem,omitempty"`
	Events     []AuditEvent `json:"events"`
}

func allocationInputs(in []Allocation) []splitplan.AllocationInput {
	out := make([]splitplan.AllocationInput, 0, len(in))
	for _, a := range in {
		out = append(out, splitplan.AllocationInput{RecipientID: a.RecipientID, Quantity: a.Quantity})
	}
	return out
}

func recipientAddress(a Address) commands.RecipientAddress {
	return commands.RecipientAddress{
		Line1:       a.Line1,
		Line2:       a.Line2,
		City:        a.City,
		Province:    a.Province,
		PostalCode:  a.PostalCode,
		CountryCode: a.CountryCode,
	}
}

func toSplitPlan(p queries.SplitPlanResponse) SplitPlan {
	allocations := make([]Allocation, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		allocations = append(allocations, Allocation{RecipientID: a.RecipientID.String(), Quantity: a.Quantity})
	}
	return SplitPlan{
		ID:                p.ID.String(),
		Shop:              p.Shop,
		SourceLineRef:     p.SourceLineRef,
		LineQuantity:      p.LineQuantity,
		AllocatedQuantity: p.AllocatedQuantity,
		Allocations:       allocations,
		OrderRef:          p.OrderRef,
		OrderName:         p.OrderName,
		CartToken:         p.CartToken,
		Status:            p.Status,
		DeliveryStatus:    p.DeliveryStatus,
		DeliveryAttempts:  p.DeliveryAttempts,
		IdempotencyKey:    p.IdempotencyKey,
		LastDeliveryAt:    p.LastDeliveryAt,
		LastDeliveryError: p.LastDeliveryError,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toSplitPlanSummaries(in []queries.SplitPlanSummary) []SplitPlanSummary {
	out := make([]SplitPlanSummary, len(in))
	for i, s := range in {
		out[i] = SplitPlanSummary{
			ID:               s.ID.String(),
			SourceLineRef:    s.SourceLineRef,
			LineQuantity:     s.LineQuantity,
			OrderRef:         s.OrderRef,
			Status:           s.Status,
			DeliveryStatus:   s.DeliveryStatus,
			DeliveryAttempts: s.DeliveryAttempts,
			CreatedAt:        s.CreatedAt,
			UpdatedAt:        s.UpdatedAt,
		}
	}
	return out
}

func toRecipients(in []queries.RecipientResponse) []Recipient {
	out := make([]Recipient, len(in))
	for i, r := range in {
		out[i] = Recipient{
			ID:   r.ID.String(),
			Name: r.Name,
			Address: Address{
				Line1:       r.Line1,
				Line2:       r.Line2,
				City:        r.City,
				Province:    r.Province,
				PostalCode:  r.PostalCode,
				CountryCode: r.CountryCode,
			},
		}
	}
	return out
}

func toAuditTrail(t queries.AuditTrailResponse) AuditTrail {
	events := make([]AuditEvent, len(t.Events))
	for i, e := range t.Events {
		events[i] = AuditEvent{Sequence: e.Sequence, EventType: e.EventType, Payload: e.Payload, CreatedAt: e.CreatedAt}
	}
	return AuditTrail{PlanID: t.PlanID.String(), Consistent: t.Consistent, Problem: t.Problem, Events: events}
}

func toDispatch(result services.DispatchResult, plan SplitPlan) Dispatch {
	var transportErr *string
	if result.TransportErr != nil {
		msg := result.TransportErr.Error()
		transportErr = &msg
	}
	return Dispatch{
		Attempt:        result.Attempt,
		IdempotencyKey: result.IdempotencyKey,
		Sent:           result.Sent(),
		Error:          transportErr,
		Payload:        result.Payload,
		Plan:           plan,
	}
}
