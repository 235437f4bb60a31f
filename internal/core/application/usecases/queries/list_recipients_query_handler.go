package queries

import (
	"context"

	"splitship/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListRecipientsQueryHandler struct {
	db *gorm.DB
}

func NewListRecipientsQueryHandler(db *gorm.DB) ListRecipientsQueryHandler {
	return ListRecipientsQueryHandler{db: db}
}

// Handle returns the shop's recipients ordered by name.
func (h ListRecipientsQueryHandler) Handle(ctx context.Context, query ListRecipientsQuery) ([]RecipientResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	recipients := make([]RecipientResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, line1, line2, city, province, postal_code, country_code
		FROM recipients
		WHERE shop = ?
		ORDER BY name, id
	`, query.Shop().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r  RecipientResponse
			id uuid.UUID
		)
		if err = rows.Scan(&id, &r.Name, &r.Line1, &r.Line2, &r.City, &r.Province, &r.PostalCode, &r.CountryCode); err != nil {
			return nil, err
		}

		recipientID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		r.ID = recipientID
		recipients = append(recipients, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return recipients, nil
}
