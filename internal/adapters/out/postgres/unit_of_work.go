// Package postgres provides GORM-based implementation of the Unit of Work pattern.
// The Unit of Work pattern maintains a list of objects affected by a business
// transaction and coordinates writing out changes and resolving concurrency problems.
//
// Key Features:
//   - Transaction management across the split plan, recipient and audit repositories
//   - Audit event tracking, reported to metrics only once the transaction commits
//   - Shop-scoped repositories: a plan of another shop is never visible
//   - Repository factory pattern for consistent database connections
//
// Usage Patterns:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	plans := uow.SplitPlanRepository(shop)
//	plan, err := plans.GetForUpdate(ctx, planID)
//	if err != nil {
//	    return err
//	}
//	// mutate the plan, which records its audit events
//	if err := plans.Update(ctx, plan); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Mutating handlers lock the plan row with GetForUpdate; Update also
//     compares the row version, so a missed lock surfaces as
//     errs.VersionIsInvalidError instead of a lost write
package postgres

import (
	"context"

	"splitship/internal/adapters/out/postgres/auditrepo"
	"splitship/internal/adapters/out/postgres/recipientrepo"
	"splitship/internal/adapters/out/postgres/splitplanrepo"
	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/ports"
	"splitship/internal/pkg/metrics"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:            f.db,
		trackedEvents: make([]audit.Event, 0),
	}
}

// GormUnitOfWork coordinates database transactions for business operations
// and tracks the audit events written during the transaction.
type GormUnitOfWork struct {
	db            *gorm.DB
	tx            *gorm.DB
	trackedEvents []audit.Event
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction and
// reports the audit events it wrote.
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err == nil {
		for _, ev := range uow.trackedEvents {
			metrics.AuditEventsTotal.WithLabelValues(ev.Type().String()).Inc()
		}
	}
	uow.trackedEvents = uow.trackedEvents[:0]
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction when nothing is open, which makes a
// deferred Rollback after Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedEvents = uow.trackedEvents[:0]
	return err
}

// SplitPlanRepository returns the shop's split plans bound to the current
// transaction, or to the main connection when none is open.
func (uow *GormUnitOfWork) SplitPlanRepository(shop kernel.Shop) ports.SplitPlanRepository {
	db := uow.conn()
	return splitplanrepo.NewGormSplitPlanRepository(db, shop, auditrepo.NewGormAuditRepository(db, shop, uow))
}

// RecipientRepository returns the shop's address book.
func (uow *GormUnitOfWork) RecipientRepository(shop kernel.Shop) ports.RecipientRepository {
	return recipientrepo.NewGormRecipientRepository(uow.conn(), shop)
}

// AuditRepository returns the shop's audit trails.
func (uow *GormUnitOfWork) AuditRepository(shop kernel.Shop) ports.AuditRepository {
	return auditrepo.NewGormAuditRepository(uow.conn(), shop, uow)
}

// DeliveryQueue returns the cross-shop failed delivery finder.
func (uow *GormUnitOfWork) DeliveryQueue() ports.DeliveryQueue {
	return splitplanrepo.NewGormDeliveryQueue(uow.conn())
}

// TrackEvents registers audit events written within this unit of work.
// Repositories call it after a successful insert.
func (uow *GormUnitOfWork) TrackEvents(events ...audit.Event) {
	uow.trackedEvents = append(uow.trackedEvents, events...)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
