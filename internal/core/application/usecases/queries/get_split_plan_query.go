// Package queries contains read operations that never change system state.
package queries

import (
	"errors"
	"time"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/guard"
)

var ErrGetSplitPlanQueryIsNotConstructed = errors.New(
	"GetSplitPlanQuery must be created via NewGetSplitPlanQuery constructor",
)

// GetSplitPlanQuery reads one plan of one shop.
type GetSplitPlanQuery struct {
	shop   kernel.Shop
	planID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetSplitPlanQuery(shop kernel.Shop, planID kernel.UUID) (GetSplitPlanQuery, error) {
	if err := errors.Join(shop.Validate(), planID.Validate()); err != nil {
		return GetSplitPlanQuery{}, err
	}
	return GetSplitPlanQuery{shop: shop, planID: planID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetSplitPlanQuery) Validate() error {
	return q.guard.Validate(ErrGetSplitPlanQueryIsNotConstructed)
}

func (q GetSplitPlanQuery) Shop() kernel.Shop   { return q.shop }
func (q GetSplitPlanQuery) PlanID() kernel.UUID { return q.planID }

// AllocationResponse is one recipient's share of the line.
type AllocationResponse struct {
	RecipientID kernel.UUID
	Quantity    int
}

// SplitPlanResponse is the full read model of a plan.
type SplitPlanResponse struct {
	ID                kernel.UUID
	Shop              string
	SourceLineRef     string
	LineQuantity      int
	AllocatedQuantity int
	Allocations       []AllocationResponse
	OrderRef          *string
	OrderName         *string
	CartToken         *string
	Status            string
	DeliveryStatus    string
	DeliveryAttempts  int
	IdempotencyKey    *string
	LastDeliveryAt    *time.Time
	LastDeliveryError *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func newSplitPlanResponse(plan *splitplan.SplitPlan) SplitPlanResponse {
	allocations := make([]AllocationResponse, 0, len(plan.Allocations()))
	for _, a := range plan.Allocations() {
		allocations = append(allocations, AllocationResponse{RecipientID: a.RecipientID(), Quantity: a.Quantity()})
	}

	return SplitPlanResponse{
		ID:                plan.ID(),
		Shop:              plan.Shop().String(),
		SourceLineRef:     plan.SourceLineRef(),
		LineQuantity:      plan.LineQuantity(),
		AllocatedQuantity: plan.AllocatedQuantity(),
		Allocations:       allocations,
		OrderRef:          plan.OrderRef(),
		OrderName:         plan.OrderName(),
		CartToken:         plan.CartToken(),
		Status:            plan.Status().String(),
		DeliveryStatus:    plan.DeliveryStatus().String(),
		DeliveryAttempts:  plan.DeliveryAttempts(),
		IdempotencyKey:    plan.IdempotencyKey(),
		LastDeliveryAt:    plan.LastDeliveryAt(),
		LastDeliveryError: plan.LastDeliveryError(),
		CreatedAt:         plan.CreatedAt(),
		UpdatedAt:         plan.UpdatedAt(),
	}
}
