// Package auditrepo persists split plan audit trails. Rows are only ever
// inserted; they disappear with their plan through the foreign key cascade.
package auditrepo

import (
	"time"

	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventDTO is a row of split_plan_events. Sequence is a bigserial and breaks
// ties between events created at the same instant. Payload is stored as
// json, not jsonb, so the canonical bytes are kept as written.
type EventDTO struct {
	Sequence    int64          `gorm:"primaryKey;autoIncrement"`
	SplitPlanID uuid.UUID      `gorm:"type:uuid;not null;index:idx_split_plan_events_plan,priority:1"`
	Shop        string         `gorm:"size:255;not null;index"`
	EventType   string         `gorm:"size:128;not null"`
	Payload     datatypes.JSON `gorm:"type:json;not null"`
	CreatedAt   time.Time      `gorm:"not null;index:idx_split_plan_events_plan,priority:2"`
}

func (EventDTO) TableName() string {
	return "split_plan_events"
}

func fromDomain(ev audit.Event) EventDTO {
	return EventDTO{
		SplitPlanID: ev.PlanID().Bytes(),
		Shop:        ev.Shop().String(),
		EventType:   ev.Type().String(),
		Payload:     datatypes.JSON(ev.Body()),
		CreatedAt:   ev.CreatedAt(),
	}
}

func toDomain(dto EventDTO) (audit.Event, error) {
	planID, err := kernel.UUIDFromBytes(dto.SplitPlanID[:])
	if err != nil {
		return audit.Event{}, err
	}
	shop, err := kernel.NewShop(dto.Shop)
	if err != nil {
		return audit.Event{}, err
	}
	return audit.RestoreEvent(dto.Sequence, shop, planID, audit.EventType(dto.EventType), dto.Payload, dto.CreatedAt)
}
