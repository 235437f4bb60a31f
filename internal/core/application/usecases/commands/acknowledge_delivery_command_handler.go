package commands

import (
	"context"
	"time"

	"splitship/internal/core/domain/services"
	"splitship/internal/core/ports"
)

// AcknowledgeDeliveryCommandHandler moves the delivery to acked under the
// coordinator's ack policy. The stored idempotency key is left untouched.
type AcknowledgeDeliveryCommandHandler struct {
	uowFactory  ports.UnitOfWorkFactory
	coordinator services.DeliveryCoordinator
}

func NewAcknowledgeDeliveryCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	coordinator services.DeliveryCoordinator,
) AcknowledgeDeliveryCommandHandler {
	return AcknowledgeDeliveryCommandHandler{
		uowFactory:  uowFactory,
		coordinator: coordinator,
	}
}

func (h AcknowledgeDeliveryCommandHandler) Handle(ctx context.Context, cmd AcknowledgeDeliveryCommand) error {
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

	if err = h.coordinator.Acknowledge(plan, time.Now()); err != nil {
		return err
	}

	if err = plans.Update(ctx, plan); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
