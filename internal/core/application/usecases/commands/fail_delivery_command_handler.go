package commands

import (
	"context"
	"time"

	"splitship/internal/core/domain/services"
	"splitship/internal/core/ports"
)

// FailDeliveryCommandHandler moves the delivery to failed and stores the
// reason as the last delivery error. The attempt counter does not change.
type FailDeliveryCommandHandler struct {
	uowFactory  ports.UnitOfWorkFactory
	coordinator services.DeliveryCoordinator
}

func NewFailDeliveryCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	coordinator services.DeliveryCoordinator,
) FailDeliveryCommandHandler {
	return FailDeliveryCommandHandler{
		uowFactory:  uowFactory,
		coordinator: coordinator,
	}
}

func (h FailDeliveryCommandHandler) Handle(ctx context.Context, cmd FailDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	plans := uow.SplitPlanRepository(cmd.Shop())
	plan, err := plans.GetForUpdate(ctx, cmd.PlanID())
	if err != nil {
		return err
	}

	if err = h.coordinator.Fail(plan, cmd.Reason(), time.Now()); err != nil {
		return err
	}

	if err = plans.Update(ctx, plan); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
