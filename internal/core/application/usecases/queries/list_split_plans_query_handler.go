package queries

import (
	"context"
	"time"

	"splitship/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListSplitPlansQueryHandler reads plan summaries straight from split_plans
// without loading aggregates.
type ListSplitPlansQueryHandler struct {
	db *gorm.DB
}

func NewListSplitPlansQueryHandler(db *gorm.DB) ListSplitPlansQueryHandler {
	return ListSplitPlansQueryHandler{db: db}
}

func (h ListSplitPlansQueryHandler) Handle(ctx context.Context, query ListSplitPlansQuery) ([]SplitPlanSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	plans := make([]SplitPlanSummary, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			source_line_ref,
			line_quantity,
			order_ref,
			status,
			delivery_status,
			delivery_attempts,
			created_at,
			updated_at
		FROM split_plans
		WHERE shop = ?
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, query.Shop().String(), query.Limit(), query.Offset()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			summary   SplitPlanSummary
			id        uuid.UUID
			orderRef  *string
			createdAt time.Time
			updatedAt time.Time
		)
		if err = rows.Scan(
			&id,
			&summary.SourceLineRef,
			&summary.LineQuantity,
			&orderRef,
			&summary.Status,
			&summary.DeliveryStatus,
			&summary.DeliveryAttempts,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, err
		}

		planID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		summary.ID = planID
		summary.OrderRef = orderRef
		summary.CreatedAt = createdAt.UTC()
		summary.UpdatedAt = updatedAt.UTC()
		plans = append(plans, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}
