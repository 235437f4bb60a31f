// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// Every handler runs in one unit of work: Begin, deferred Rollback, Commit.
// A plan write and the audit events it records therefore commit together.
package commands

import (
	"context"
	"errors"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/core/ports"
	"splitship/internal/pkg/errs"
)

// loadRecipients returns the shop's recipients for ids. Every id the address
// book does not know is reported as not found.
func loadRecipients(
	ctx context.Context,
	repo ports.RecipientRepository,
	ids []kernel.UUID,
) ([]*recipient.Recipient, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	known := make(map[kernel.UUID]struct{}, len(found))
	for _, r := range found {
		known[r.ID()] = struct{}{}
	}

	var missing []error
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, errs.NewObjectNotFoundError("recipient", id.String()))
		}
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}
	return found, nil
}
