package commands

import (
	"errors"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/guard"
)

var ErrDeleteRecipientCommandIsNotConstructed = errors.New(
	"DeleteRecipientCommand must be created via NewDeleteRecipientCommand constructor",
)

// DeleteRecipientCommand removes an address-book entry. A recipient that
// any allocation still references cannot be deleted.
type DeleteRecipientCommand struct { //nolint:recvcheck //using for validation
	shop        kernel.Shop
	recipientID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteRecipientCommand(shop kernel.Shop, recipientID kernel.UUID) (DeleteRecipientCommand, error) {
	if err := errors.Join(shop.Validate(), recipientID.Validate()); err != nil {
		return DeleteRecipientCommand{}, err
	}
	return DeleteRecipientCommand{shop: shop, recipientID: recipientID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteRecipientCommand) Validate() error {
	return c.guard.Validate(ErrDeleteRecipientCommandIsNotConstructed)
}

func (c DeleteRecipientCommand) Shop() kernel.Shop        { return c.shop }
func (c DeleteRecipientCommand) RecipientID() kernel.UUID { return c.recipientID }
