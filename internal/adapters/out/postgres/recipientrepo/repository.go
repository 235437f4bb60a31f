package recipientrepo

import (
	"context"
	"errors"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// allocationsTable is read to refuse deleting referenced recipients. The
// foreign key on it enforces the same rule at the database level.
const allocationsTable = "split_plan_allocations"

// GormRecipientRepository implements ports.RecipientRepository for one shop.
type GormRecipientRepository struct {
	db   *gorm.DB
	shop kernel.Shop
}

func NewGormRecipientRepository(db *gorm.DB, shop kernel.Shop) *GormRecipientRepository {
	return &GormRecipientRepository{
		db:   db,
		shop: shop,
	}
}

// Add saves a new recipient. The recipient must belong to the repository's shop.
func (r *GormRecipientRepository) Add(ctx context.Context, rec *recipient.Recipient) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if !rec.Shop().IsEqual(r.shop) {
		return errs.NewValueIsInvalidError("recipient belongs to another shop")
	}

	dto := fromDomain(rec)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a recipient of the shop by ID.
func (r *GormRecipientRepository) Get(ctx context.Context, id kernel.UUID) (*recipient.Recipient, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RecipientDTO
	if err := r.scoped(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("recipient", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindByIDs returns the shop's recipients among ids.
func (r *GormRecipientRepository) FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*recipient.Recipient, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []RecipientDTO
	if err := r.scoped(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// List returns the shop's recipients ordered by name.
func (r *GormRecipientRepository) List(ctx context.Context) ([]*recipient.Recipient, error) {
	var dtos []RecipientDTO
	if err := r.scoped(ctx).Order("name, id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// Delete removes a recipient of the shop that no allocation references. A
// recipient of another shop is reported as not found whether referenced or not.
func (r *GormRecipientRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	var owned int64
	if err := r.scoped(ctx).Model(&RecipientDTO{}).Where("id = ?", id.Bytes()).Count(&owned).Error; err != nil {
		return err
	}
	if owned == 0 {
		return errs.NewObjectNotFoundError("recipient", id.String())
	}

	var references int64
	if err := r.db.WithContext(ctx).Table(allocationsTable).Where("recipient_id = ?", id.Bytes()).Count(&references).Error; err != nil {
		return err
	}
	if references > 0 {
		return errs.NewConflictError("recipient", "recipient is referenced by split plan allocations")
	}

	result := r.scoped(ctx).Delete(&RecipientDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return errs.NewConflictError("recipient", "recipient is referenced by split plan allocations")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("recipient", id.String())
	}
	return nil
}

func (r *GormRecipientRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("shop = ?", r.shop.String())
}

func toDomainList(dtos []RecipientDTO) ([]*recipient.Recipient, error) {
	recipients := make([]*recipient.Recipient, 0, len(dtos))
	for _, dto := range dtos {
		rec, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, nil
}
