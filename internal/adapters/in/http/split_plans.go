package http

import (
	"net/http"

	"splitship/internal/core/application/usecases/commands"
	"splitship/internal/core/application/usecases/queries"
	"splitship/internal/core/domain/model/splitplan"

	"github.com/labstack/echo/v4"
)

// CreateSplitPlan handles POST /api/v1/shops/:shop/split-plans.
func (s *Server) CreateSplitPlan(c echo.Context) error {
	shop, err := shopParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req NewSplitPlan
	if err = bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewCreateSplitPlanCommand(
		shop, req.SourceLineRef, req.LineQuantity, allocationInputs(req.Allocations), req.CartToken,
	)
	if err != nil {
		return s.writeError(c, err)
	}

	id, err := s.handlers.CreateSplitPlan.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return s.respondWithPlan(c, http.StatusCreated, shop, id)
}

// ListSplitPlans handles GET /api/v1/shops/:shop/split-plans?limit=&offset=.
func (s *Server) ListSplitPlans(c echo.Context) error {
	shop, err := shopParam(c)
	if err != nil {
		return s.writeError(c, err)
	}
	limit, err := intQueryParam(c, "limit")
	if err != nil {
		return s.writeError(c, err)
	}
	offset, err := intQueryParam(c, "offset")
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewListSplitPlansQuery(shop, limit, offset)
	if err != nil {
		return s.writeError(c, err)
	}

	plans, err := s.handlers.ListSplitPlans.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toSplitPlanSummaries(plans))
}

// GetSplitPlan handles GET /api/v1/shops/:shop/split-plans/:planID.
func (s *Server) GetSplitPlan(c echo.Context) error {
	shop, planID, err := planParams(c)
	if err != nil {
		return s.writeError(c, err)
	}
	return s.respondWithPlan(c, http.StatusOK, shop, planID)
}

// UpdateSplitPlan handles PUT /api/v1/shops/:shop/split-plans/:planID.
// The allocations are replaced; an omitted sourceLineRef or lineQuantity
// keeps its stored value.
func (s *Server) UpdateSplitPlan(c echo.Context) error {
	shop, planID, err := planParams(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req SplitPlanUpdate
	if err = bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewUpdateSplitPlanCommand(
		shop, planID, req.SourceLineRef, req.LineQuantity, allocationInputs(req.Allocations),
	)
	if err != nil {
		return s.writeError(c, err)
	}

	if err = s.handlers.UpdateSplitPlan.Handle(c.Request().Context(), cmd); err != nil {
		return s.writeError(c, err)
	}

	return s.respondWithPlan(c, http.StatusOK, shop, planID)
}

// DeleteSplitPlan handles DELETE /api/v1/shops/:shop/split-plans/:planID.
func (s *Server) DeleteSplitPlan(c echo.Context) error {
	shop, planID, err := planParams(c)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewDeleteSplitPlanCommand(shop, planID)
	if err != nil {
		return s.writeError(c, err)
	}

	if err = s.handlers.DeleteSplitPlan.Handle(c.Request().Context(), cmd); err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GenerateInstructions handles POST /api/v1/shops/:shop/split-plans/:planID/instructions.
func (s *Server) GenerateInstructions(c echo.Context) error {
	shop, planID, err := planParams(c)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewGenerateInstructionsCommand(shop, planID)
	if err != nil {
		return s.writeError(c, err)
	}

	instructions, err := s.handlers.GenerateInstructions.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, Instructions{Instructions: instructions})
}

// AdvanceLifecycle handles POST /api/v1/shops/:shop/split-plans/:planID/lifecycle/:operation.
func (s *Server) AdvanceLifecycle(c echo.Context) error {
	shop, planID, err := planParams(c)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewAdvanceLifecycleCommand(shop, planID, c.Param("operation"))
	if err != nil {
		return s.writeError(c, err)
	}

	if err = s.handlers.AdvanceLifecycle.Handle(c.Request().Context(), cmd); err != nil {
		return s.writeError(c, err)
	}

	return s.respondWithPlan(c, http.StatusOK, shop, planID)
}

// ApplyDelivery handles POST /api/v1/shops/:shop/split-plans/:planID/delivery/:operation.
// send and retry answer with the attempt made, ack and fail with the plan.
// A partner failure is still a 200: the attempt was recorded as failed.
func (s *Server) ApplyDelivery(c echo.Context) error {
	shop, planID, err := planParams(c)
	if err != nil {
		return s.writeError(c, err)
	}

	operation, err := splitplan.ParseDeliveryOperation(c.Param("operation"))
	if err != nil {
		return s.writeError(c, err)
	}

	ctx := c.Request().Context()

	switch operation {
	case splitplan.DeliverySend, splitplan.DeliveryRetry:
		cmd, cmdErr := commands.NewDispatchDeliveryCommand(shop, planID, string(operation))
		if cmdErr != nil {
			return s.writeError(c, cmdErr)
		}
		result, dispatchErr := s.handlers.DispatchDelivery.Handle(ctx, cmd)
		if dispatchErr != nil {
			return s.writeError(c, dispatchErr)
		}
		plan, loadErr := s.loadPlan(c, shop, planID)
		if loadErr != nil {
			return s.writeError(c, loadErr)
		}
		return c.JSON(http.StatusOK, toDispatch(result, plan))

	case splitplan.DeliveryAck:
		cmd, cmdErr := commands.NewAcknowledgeDeliveryCommand(shop, planID)
		if cmdErr != nil {
			return s.writeError(c, cmdErr)
		}
		if err = s.handlers.AcknowledgeDelivery.Handle(ctx, cmd); err != nil {
			return s.writeError(c, err)
		}

	case splitplan.DeliveryFail:
		var req OperationRequest
		if err = bind(c, &req); err != nil {
			return s.writeError(c, err)
		}
		cmd, cmdErr := commands.NewFailDeliveryCommand(shop, planID, req.Reason)
		if cmdErr != nil {
			return s.writeError(c, cmdErr)
		}
		if err = s.handlers.FailDelivery.Handle(ctx, cmd); err != nil {
			return s.writeError(c, err)
		}
	}

	return s.respondWithPlan(c, http.StatusOK, shop, planID)
}

// GetAuditTrail handles GET /api/v1/shops/:shop/split-plans/:planID/events.
func (s *Server) GetAuditTrail(c echo.Context) error {
	shop, planID, err := planParams(c)
	if err != nil {
		return s.writeError(c, err)
	}

	query, err := queries.NewGetAuditTrailQuery(shop, planID)
	if err != nil {
		return s.writeError(c, err)
	}

	trail, err := s.handlers.GetAuditTrail.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, toAuditTrail(trail))
}

// CorrelateOrder handles POST /api/v1/shops/:shop/order-correlations.
func (s *Server) CorrelateOrder(c echo.Context) error {
	shop, err := shopParam(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var req OrderCorrelation
	if err = bind(c, &req); err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewCorrelateOrderCommand(shop, req.OrderRef, req.CartToken, req.OrderName)
	if err != nil {
		return s.writeError(c, err)
	}

	matched, err := s.handlers.CorrelateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, Correlated{Matched: matched})
}
