package commands

import (
	"errors"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/guard"
)

var ErrCreateRecipientCommandIsNotConstructed = errors.New(
	"CreateRecipientCommand must be created via NewCreateRecipientCommand constructor",
)

// RecipientAddress is the postal address of a new recipient as received.
type RecipientAddress struct {
	Line1       string
	Line2       *string
	City        string
	Province    *string
	PostalCode  string
	CountryCode string
}

// CreateRecipientCommand adds an entry to a shop's address book.
type CreateRecipientCommand struct { //nolint:recvcheck //using for validation
	shop    kernel.Shop
	name    string
	address kernel.Address

	guard guard.ConstructorGuard
}

func NewCreateRecipientCommand(shop kernel.Shop, name string, address RecipientAddress) (CreateRecipientCommand, error) {
	addr, addrErr := kernel.NewAddress(
		address.Line1,
		address.Line2,
		address.City,
		address.Province,
		address.PostalCode,
		address.CountryCode,
	)
	if err := errors.Join(shop.Validate(), addrErr); err != nil {
		return CreateRecipientCommand{}, err
	}

	return CreateRecipientCommand{
		shop:    shop,
		name:    name,
		address: addr,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CreateRecipientCommand) Validate() error {
	return c.guard.Validate(ErrCreateRecipientCommandIsNotConstructed)
}

func (c CreateRecipientCommand) Shop() kernel.Shop       { return c.shop }
func (c CreateRecipientCommand) Name() string            { return c.name }
func (c CreateRecipientCommand) Address() kernel.Address { return c.address }
