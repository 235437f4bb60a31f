package recipient

import (
	"errors"
	"strings"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/guard"
)

// ErrRecipientIsNotConstructed is returned by Validate for a zero-value Recipient.
var ErrRecipientIsNotConstructed = errors.New("Recipient must be created via NewRecipient or RestoreRecipient")

// Recipient is a named postal destination owned by one shop.
type Recipient struct {
	id      kernel.UUID
	shop    kernel.Shop
	name    string
	address kernel.Address

	guard guard.ConstructorGuard
}

// NewRecipient creates a recipient with a fresh identifier.
func NewRecipient(shop kernel.Shop, name string, address kernel.Address) (*Recipient, error) {
	return RestoreRecipient(kernel.NewUUID(), shop, name, address)
}

// RestoreRecipient rebuilds a persisted recipient.
func RestoreRecipient(id kernel.UUID, shop kernel.Shop, name string, address kernel.Address) (*Recipient, error) {
	r := &Recipient{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		r.setID(id),
		r.setShop(shop),
		r.setName(name),
		r.setAddress(address),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Recipient) ID() kernel.UUID         { return r.id }
func (r *Recipient) Shop() kernel.Shop       { return r.shop }
func (r *Recipient) Name() string            { return r.name }
func (r *Recipient) Address() kernel.Address { return r.address }

func (r *Recipient) Validate() error {
	if r == nil {
		return ErrRecipientIsNotConstructed
	}
	return r.guard.Validate(ErrRecipientIsNotConstructed)
}

func (r *Recipient) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Recipient) setShop(shop kernel.Shop) error {
	if err := shop.Validate(); err != nil {
		return err
	}
	r.shop = shop
	return nil
}

func (r *Recipient) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("recipient name")
	}
	r.name = name
	return nil
}

func (r *Recipient) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	r.address = address
	return nil
}
