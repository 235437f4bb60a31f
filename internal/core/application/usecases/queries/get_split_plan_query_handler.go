package queries

import (
	"context"

	"splitship/internal/core/ports"
)

// GetSplitPlanQueryHandler loads a plan through the shop-scoped repository,
// so another shop's plan is reported as not found.
type GetSplitPlanQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewGetSplitPlanQueryHandler(uowFactory ports.UnitOfWorkFactory) GetSplitPlanQueryHandler {
	return GetSplitPlanQueryHandler{uowFactory: uowFactory}
}

func (h GetSplitPlanQueryHandler) Handle(ctx context.Context, query GetSplitPlanQuery) (SplitPlanResponse, error) {
	if err := query.Validate(); err != nil {
		return SplitPlanResponse{}, err
	}

	plan, err := h.uowFactory.Create().SplitPlanRepository(query.Shop()).Get(ctx, query.PlanID())
	if err != nil {
		return SplitPlanResponse{}, err
	}

	return newSplitPlanResponse(plan), nil
}
