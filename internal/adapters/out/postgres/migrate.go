package postgres

import (
	"splitship/internal/adapters/out/postgres/auditrepo"
	"splitship/internal/adapters/out/postgres/recipientrepo"
	"splitship/internal/adapters/out/postgres/splitplanrepo"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table used by the repositories,
// including the cascading and restricting foreign keys.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&recipientrepo.RecipientDTO{},
		&splitplanrepo.SplitPlanDTO{},
		&splitplanrepo.AllocationDTO{},
		&auditrepo.EventDTO{},
	)
}
