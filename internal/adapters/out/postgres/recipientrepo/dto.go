// Package recipientrepo persists the shop address book.
package recipientrepo

import (
	"time"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"

	"github.com/google/uuid"
)

// RecipientDTO is a row of the recipients table. Every row belongs to one shop.
type RecipientDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Shop        string    `gorm:"size:255;not null;index"`
	Name        string    `gorm:"not null"`
	Line1       string    `gorm:"not null"`
	Line2       *string
	City        string `gorm:"not null"`
	Province    *string
	PostalCode  string `gorm:"not null"`
	CountryCode string `gorm:"type:char(2);not null"`
	CreatedAt   time.Time
}

func (RecipientDTO) TableName() string {
	return "recipients"
}

func fromDomain(r *recipient.Recipient) RecipientDTO {
	a := r.Address()
	return RecipientDTO{
		ID:          r.ID().Bytes(),
		Shop:        r.Shop().String(),
		Name:        r.Name(),
		Line1:       a.Line1(),
		Line2:       a.Line2(),
		City:        a.City(),
		Province:    a.Province(),
		PostalCode:  a.PostalCode(),
		CountryCode: a.CountryCode(),
	}
}

func toDomain(dto RecipientDTO) (*recipient.Recipient, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shop, err := kernel.NewShop(dto.Shop)
	if err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(dto.Line1, dto.Line2, dto.City, dto.Province, dto.PostalCode, dto.CountryCode)
	if err != nil {
		return nil, err
	}
	return recipient.RestoreRecipient(id, shop, dto.Name, address)
}
