package splitplanrepo

import (
	"context"
	"errors"

	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/core/ports"
	"splitship/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventAppender writes the audit events recorded on a plan.
type eventAppender interface {
	Append(ctx context.Context, events ...audit.Event) error
}

// GormSplitPlanRepository implements ports.SplitPlanRepository for one shop.
// Every statement it issues is filtered by shop.
type GormSplitPlanRepository struct {
	db     *gorm.DB
	shop   kernel.Shop
	events eventAppender
}

func NewGormSplitPlanRepository(db *gorm.DB, shop kernel.Shop, events eventAppender) *GormSplitPlanRepository {
	return &GormSplitPlanRepository{
		db:     db,
		shop:   shop,
		events: events,
	}
}

// Add inserts a new plan, its allocations and its pending events.
func (r *GormSplitPlanRepository) Add(ctx context.Context, plan *splitplan.SplitPlan) error {
	if err := r.owns(plan); err != nil {
		return err
	}

	dto := fromDomain(plan)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if err := r.events.Append(ctx, plan.PendingEvents()...); err != nil {
		return err
	}

	plan.MarkPersisted(dto.Version)
	return nil
}

// Update writes the plan when the stored row still has the version and
// attempt counter the plan was loaded with. The counter is advanced by the
// number of attempts made since loading, in the same statement.
func (r *GormSplitPlanRepository) Update(ctx context.Context, plan *splitplan.SplitPlan) error {
	if err := r.owns(plan); err != nil {
		return err
	}

	dto := fromDomain(plan)
	attemptsDelta := plan.DeliveryAttempts() - plan.PersistedDeliveryAttempts()
	if attemptsDelta < 0 {
		return errs.NewValueIsInvalidError("delivery attempts cannot decrease")
	}

	result := r.db.WithContext(ctx).
		Model(&SplitPlanDTO{}).
		Where("id = ? AND shop = ? AND version = ? AND delivery_attempts = ?",
			dto.ID, dto.Shop, plan.Version(), plan.PersistedDeliveryAttempts()).
		Updates(map[string]any{
			"source_line_ref":     dto.SourceLineRef,
			"line_quantity":       dto.LineQuantity,
			"order_ref":           dto.OrderRef,
			"order_name":          dto.OrderName,
			"cart_token":          dto.CartToken,
			"status":              dto.Status,
			"delivery_status":     dto.DeliveryStatus,
			"delivery_attempts":   gorm.Expr("delivery_attempts + ?", attemptsDelta),
			"idempotency_key":     dto.IdempotencyKey,
			"last_delivery_at":    dto.LastDeliveryAt,
			"last_delivery_error": dto.LastDeliveryError,
			"updated_at":          dto.UpdatedAt,
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, plan.ID())
	}

	if err := r.replaceAllocations(ctx, dto); err != nil {
		return err
	}
	if err := r.events.Append(ctx, plan.PendingEvents()...); err != nil {
		return err
	}

	plan.MarkPersisted(plan.Version() + 1)
	return nil
}

// Get retrieves a plan of the shop by ID.
func (r *GormSplitPlanRepository) Get(ctx context.Context, id kernel.UUID) (*splitplan.SplitPlan, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves a plan and holds a row lock on it until the
// surrounding transaction ends.
func (r *GormSplitPlanRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*splitplan.SplitPlan, error) {
	return r.get(ctx, id, true)
}

// FindForCorrelation locks the shop's plans matching orderRef or cartToken.
func (r *GormSplitPlanRepository) FindForCorrelation(
	ctx context.Context,
	orderRef string,
	cartToken *string,
) ([]*splitplan.SplitPlan, error) {
	query := r.scoped(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	if cartToken != nil {
		query = query.Where("order_ref = ? OR cart_token = ?", orderRef, *cartToken)
	} else {
		query = query.Where("order_ref = ?", orderRef)
	}

	var dtos []SplitPlanDTO
	if err := preloadAllocations(query).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// List returns the shop's plans, newest first.
func (r *GormSplitPlanRepository) List(ctx context.Context, limit, offset int) ([]*splitplan.SplitPlan, error) {
	var dtos []SplitPlanDTO
	if err := preloadAllocations(r.scoped(ctx)).
		Order("created_at DESC, id").
		Limit(limit).
		Offset(offset).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// Delete removes a plan. Allocations and audit events go with it through
// the foreign key cascade.
func (r *GormSplitPlanRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.scoped(ctx).Delete(&SplitPlanDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("split plan", id.String())
	}
	return nil
}

func (r *GormSplitPlanRepository) get(ctx context.Context, id kernel.UUID, lock bool) (*splitplan.SplitPlan, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.scoped(ctx)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto SplitPlanDTO
	if err := preloadAllocations(query).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("split plan", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormSplitPlanRepository) replaceAllocations(ctx context.Context, dto SplitPlanDTO) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("split_plan_id = ?", dto.ID).Delete(&AllocationDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Allocations) == 0 {
		return nil
	}
	return db.Omit("Recipient").Create(&dto.Allocations).Error
}

// missingOrStale tells a foreign or deleted plan apart from a concurrent write.
func (r *GormSplitPlanRepository) missingOrStale(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.scoped(ctx).Model(&SplitPlanDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("split plan", id.String())
	}
	return errs.NewVersionIsInvalidError("split plan version", ports.ErrConcurrentModification)
}

func (r *GormSplitPlanRepository) owns(plan *splitplan.SplitPlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	if !plan.Shop().IsEqual(r.shop) {
		return errs.NewValueIsInvalidError("split plan belongs to another shop")
	}
	return nil
}

func (r *GormSplitPlanRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("shop = ?", r.shop.String())
}

func preloadAllocations(db *gorm.DB) *gorm.DB {
	return db.Preload("Allocations", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func toDomainList(dtos []SplitPlanDTO) ([]*splitplan.SplitPlan, error) {
	plans := make([]*splitplan.SplitPlan, 0, len(dtos))
	for _, dto := range dtos {
		plan, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
