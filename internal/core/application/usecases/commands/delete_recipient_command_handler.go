package commands

import (
	"context"

	"splitship/internal/core/ports"
)

type DeleteRecipientCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewDeleteRecipientCommandHandler(uowFactory ports.UnitOfWorkFactory) DeleteRecipientCommandHandler {
	return DeleteRecipientCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns errs.ConflictError when the recipient is still allocated.
func (h DeleteRecipientCommandHandler) Handle(ctx context.Context, cmd DeleteRecipientCommand) error {
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

	if err := uow.RecipientRepository(cmd.Shop()).Delete(ctx, cmd.RecipientID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
