package queries

import (
	"errors"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/guard"
)

var ErrListRecipientsQueryIsNotConstructed = errors.New(
	"ListRecipientsQuery must be created via NewListRecipientsQuery constructor",
)

// ListRecipientsQuery reads a shop's address book.
type ListRecipientsQuery struct {
	shop kernel.Shop

	guard guard.ConstructorGuard
}

func NewListRecipientsQuery(shop kernel.Shop) (ListRecipientsQuery, error) {
	if err := shop.Validate(); err != nil {
		return ListRecipientsQuery{}, err
	}
	return ListRecipientsQuery{shop: shop, guard: guard.NewConstructorGuard()}, nil
}

func (q ListRecipientsQuery) Validate() error {
	return q.guard.Validate(ErrListRecipientsQueryIsNotConstructed)
}

func (q ListRecipientsQuery) Shop() kernel.Shop { return q.shop }

// RecipientResponse is one address-book entry.
type RecipientResponse struct {
	ID          kernel.UUID
	Name        string
	Line1       string
	Line2       *string
	City        string
	Province    *string
	PostalCode  string
	CountryCode string
}
