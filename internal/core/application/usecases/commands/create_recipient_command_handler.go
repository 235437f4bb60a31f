package commands

import (
	"context"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/core/ports"
)

type CreateRecipientCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewCreateRecipientCommandHandler(uowFactory ports.UnitOfWorkFactory) CreateRecipientCommandHandler {
	return CreateRecipientCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the new recipient's ID.
func (h CreateRecipientCommandHandler) Handle(ctx context.Context, cmd CreateRecipientCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	rec, err := recipient.NewRecipient(cmd.Shop(), cmd.Name(), cmd.Address())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RecipientRepository(cmd.Shop()).Add(ctx, rec); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return rec.ID(), nil
}
