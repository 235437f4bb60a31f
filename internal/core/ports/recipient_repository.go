package ports

import (
	"context"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
)

// RecipientRepository is the address book of a single shop.
type RecipientRepository interface {
	Add(ctx context.Context, r *recipient.Recipient) error

	Get(ctx context.Context, id kernel.UUID) (*recipient.Recipient, error)

	// FindByIDs returns the recipients among ids that exist in the shop.
	// Unknown ids are left out, not reported.
	FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*recipient.Recipient, error)

	List(ctx context.Context) ([]*recipient.Recipient, error)

	// Delete removes a recipient. A recipient still referenced by an
	// allocation is not deleted and an *errs.ConflictError is returned.
	Delete(ctx context.Context, id kernel.UUID) error
}
