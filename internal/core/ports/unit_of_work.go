package ports

import (
	"context"

	"splitship/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// A plan row, its allocations and the audit events recorded on it are
// written through repositories of the same UnitOfWork and commit together.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// SplitPlanRepository returns the split plans of one shop, bound to the
	// current transaction.
	SplitPlanRepository(shop kernel.Shop) SplitPlanRepository

	// RecipientRepository returns the address book of one shop, bound to the
	// current transaction.
	RecipientRepository(shop kernel.Shop) RecipientRepository

	// AuditRepository returns the audit trails of one shop's plans.
	AuditRepository(shop kernel.Shop) AuditRepository

	// DeliveryQueue lists plans across shops for the retry job.
	DeliveryQueue() DeliveryQueue
}
