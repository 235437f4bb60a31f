// Package splitplanrepo persists split plan aggregates with their
// allocations. Audit events recorded on a plan are written through the
// audit repository in the same transaction.
package splitplanrepo

import (
	"time"

	"splitship/internal/adapters/out/postgres/auditrepo"
	"splitship/internal/adapters/out/postgres/recipientrepo"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"

	"github.com/google/uuid"
)

// SplitPlanDTO is a row of split_plans. Version is bumped on every update
// and compared before writing.
type SplitPlanDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Shop              string    `gorm:"size:255;not null;index"`
	SourceLineRef     string    `gorm:"not null"`
	LineQuantity      int       `gorm:"not null;check:line_quantity > 0"`
	OrderRef          *string   `gorm:"index"`
	OrderName         *string
	CartToken         *string `gorm:"index"`
	Status            string  `gorm:"size:32;not null"`
	DeliveryStatus    string  `gorm:"size:16;not null;index"`
	DeliveryAttempts  int     `gorm:"not null;default:0;check:delivery_attempts >= 0"`
	IdempotencyKey    *string
	LastDeliveryAt    *time.Time
	LastDeliveryError *string
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
	Version           int64     `gorm:"not null;default:1"`

	Allocations []AllocationDTO      `gorm:"foreignKey:SplitPlanID;constraint:OnDelete:CASCADE"`
	Events      []auditrepo.EventDTO `gorm:"foreignKey:SplitPlanID;constraint:OnDelete:CASCADE"`
}

func (SplitPlanDTO) TableName() string {
	return "split_plans"
}

// AllocationDTO is a row of split_plan_allocations. The recipient foreign
// key restricts deletes, so referenced recipients cannot disappear.
type AllocationDTO struct {
	SplitPlanID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position    int       `gorm:"not null"`
	Quantity    int       `gorm:"not null;check:quantity > 0"`

	Recipient *recipientrepo.RecipientDTO `gorm:"foreignKey:RecipientID;constraint:OnDelete:RESTRICT"`
}

func (AllocationDTO) TableName() string {
	return "split_plan_allocations"
}

func fromDomain(plan *splitplan.SplitPlan) SplitPlanDTO {
	return SplitPlanDTO{
		ID:                plan.ID().Bytes(),
		Shop:              plan.Shop().String(),
		SourceLineRef:     plan.SourceLineRef(),
		LineQuantity:      plan.LineQuantity(),
		OrderRef:          plan.OrderRef(),
		OrderName:         plan.OrderName(),
		CartToken:         plan.CartToken(),
		Status:            plan.Status().String(),
		DeliveryStatus:    plan.DeliveryStatus().String(),
		DeliveryAttempts:  plan.DeliveryAttempts(),
		IdempotencyKey:    plan.IdempotencyKey(),
		LastDeliveryAt:    plan.LastDeliveryAt(),
		LastDeliveryError: plan.LastDeliveryError(),
		CreatedAt:         plan.CreatedAt(),
		UpdatedAt:         plan.UpdatedAt(),
		Version:           plan.Version(),
		Allocations:       allocationsFromDomain(plan),
	}
}

func allocationsFromDomain(plan *splitplan.SplitPlan) []AllocationDTO {
	allocations := plan.Allocations()
	dtos := make([]AllocationDTO, len(allocations))
	for i, a := range allocations {
		dtos[i] = AllocationDTO{
			SplitPlanID: plan.ID().Bytes(),
			RecipientID: a.RecipientID().Bytes(),
			Position:    i,
			Quantity:    a.Quantity(),
		}
	}
	return dtos
}

// toDomain expects Allocations to be loaded in position order.
func toDomain(dto SplitPlanDTO) (*splitplan.SplitPlan, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shop, err := kernel.NewShop(dto.Shop)
	if err != nil {
		return nil, err
	}
	status, err := splitplan.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	deliveryStatus, err := splitplan.ParseDeliveryStatus(dto.DeliveryStatus)
	if err != nil {
		return nil, err
	}

	allocations := make([]splitplan.Allocation, 0, len(dto.Allocations))
	for _, a := range dto.Allocations {
		recipientID, err := kernel.UUIDFromBytes(a.RecipientID[:])
		if err != nil {
			return nil, err
		}
		allocation, err := splitplan.NewAllocation(recipientID, a.Quantity)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, allocation)
	}

	return splitplan.RestoreSplitPlan(splitplan.Snapshot{
		ID:                id,
		Shop:              shop,
		SourceLineRef:     dto.SourceLineRef,
		LineQuantity:      dto.LineQuantity,
		Allocations:       allocations,
		OrderRef:          dto.OrderRef,
		OrderName:         dto.OrderName,
		CartToken:         dto.CartToken,
		Status:            status,
		DeliveryStatus:    deliveryStatus,
		DeliveryAttempts:  dto.DeliveryAttempts,
		IdempotencyKey:    dto.IdempotencyKey,
		LastDeliveryAt:    dto.LastDeliveryAt,
		LastDeliveryError: dto.LastDeliveryError,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
		Version:           dto.Version,
	})
}
