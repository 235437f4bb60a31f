package splitplanrepo

import (
	"context"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeliveryQueue implements ports.DeliveryQueue across all shops.
type GormDeliveryQueue struct {
	db *gorm.DB
}

func NewGormDeliveryQueue(db *gorm.DB) *GormDeliveryQueue {
	return &GormDeliveryQueue{db: db}
}

type planRefRow struct {
	Shop string
	ID   uuid.UUID
}

// FindFailedDeliveries lists failed deliveries that still have attempts left.
func (q *GormDeliveryQueue) FindFailedDeliveries(ctx context.Context, maxAttempts, limit int) ([]ports.PlanRef, error) {
	var rows []planRefRow
	if err := q.db.WithContext(ctx).
		Model(&SplitPlanDTO{}).
		Select("shop, id").
		Where("delivery_status = ? AND delivery_attempts < ?", splitplan.DeliveryFailed.String(), maxAttempts).
		Order("last_delivery_at NULLS FIRST, id").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	refs := make([]ports.PlanRef, 0, len(rows))
	for _, row := range rows {
		shop, err := kernel.NewShop(row.Shop)
		if err != nil {
			return nil, err
		}
		id, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return nil, err
		}
		refs = append(refs, ports.PlanRef{Shop: shop, ID: id})
	}
	return refs, nil
}
