package auditrepo

import (
	"context"

	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/errs"

	"gorm.io/gorm"
)

// eventTracker is told about events once they are written.
type eventTracker interface {
	TrackEvents(events ...audit.Event)
}

// GormAuditRepository implements ports.AuditRepository for one shop.
type GormAuditRepository struct {
	db      *gorm.DB
	shop    kernel.Shop
	tracker eventTracker
}

func NewGormAuditRepository(db *gorm.DB, shop kernel.Shop, tracker eventTracker) *GormAuditRepository {
	return &GormAuditRepository{
		db:      db,
		shop:    shop,
		tracker: tracker,
	}
}

// Append inserts events in the given order.
func (r *GormAuditRepository) Append(ctx context.Context, events ...audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, ev := range events {
		if err := ev.Validate(); err != nil {
			return err
		}
		if !ev.Shop().IsEqual(r.shop) {
			return errs.NewValueIsInvalidError("audit event belongs to another shop")
		}
		dtos = append(dtos, fromDomain(ev))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	r.tracker.TrackEvents(events...)
	return nil
}

// ListByPlan returns a plan's trail in creation order.
func (r *GormAuditRepository) ListByPlan(ctx context.Context, planID kernel.UUID) ([]audit.Event, error) {
	if err := planID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EventDTO
	if err := r.db.WithContext(ctx).
		Where("shop = ? AND split_plan_id = ?", r.shop.String(), planID.Bytes()).
		Order("created_at, sequence").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]audit.Event, 0, len(dtos))
	for _, dto := range dtos {
		ev, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
