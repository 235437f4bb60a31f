package services

import (
	"fmt"

	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/errs"
)

// SchemaVersion identifies the payload contract revision.
const SchemaVersion = "split-plan-fulfillment/v1"

// AddressPayload is a recipient's postal address as sent to the partner.
type AddressPayload struct {
	Line1       string  `json:"line1"`
	Line2       *string `json:"line2"`
	City        string  `json:"city"`
	Province    *string `json:"province"`
	PostalCode  string  `json:"postalCode"`
	CountryCode string  `json:"countryCode"`
}

// Instruction is one recipient's share of the line with the data needed to
// ship it.
type Instruction struct {
	RecipientID   string         `json:"recipientId"`
	RecipientName string         `json:"recipientName"`
	Quantity      int            `json:"quantity"`
	Address       AddressPayload `json:"address"`
}

// FulfillmentPayload is the document handed to the fulfillment partner.
// The partner dedupes on IdempotencyKey and may cross-check that the
// recipient quantities sum to LineQuantity.
type FulfillmentPayload struct {
	SchemaVersion  string        `json:"schemaVersion"`
	IdempotencyKey string        `json:"idempotencyKey"`
	SplitPlanID    string        `json:"splitPlanId"`
	Shop           string        `json:"shop"`
	OrderID        *string       `json:"orderId"`
	CartToken      *string       `json:"cartToken"`
	SourceLineRef  string        `json:"sourceLineRef"`
	LineQuantity   int           `json:"lineQuantity"`
	Recipients     []Instruction `json:"recipients"`
}

// CanonicalJSON encodes the payload as RFC 8785 canonical JSON. The same
// payload always encodes to the same bytes.
func (p FulfillmentPayload) CanonicalJSON() ([]byte, error) {
	return audit.Canonicalize(p)
}

// Validate checks that the recipient quantities sum to the line quantity
// without overflowing and that the payload matches its JSON schema.
func (p FulfillmentPayload) Validate() error {
	total := 0
	for _, r := range p.Recipients {
		var overflowed bool
		if total, overflowed = splitplan.AddQuantity(total, r.Quantity); overflowed {
			return errs.NewValueIsInvalidErrorWithCause(
				"fulfillment payload",
				fmt.Errorf("recipient quantities overflow, line quantity is %d", p.LineQuantity),
			)
		}
	}
	if total != p.LineQuantity {
		return errs.NewValueIsInvalidErrorWithCause(
			"fulfillment payload",
			fmt.Errorf("recipient quantities sum to %d, line quantity is %d", total, p.LineQuantity),
		)
	}

	raw, err := p.CanonicalJSON()
	if err != nil {
		return err
	}
	if err := validateAgainstSchema(raw); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment payload", err)
	}
	return nil
}

func addressPayload(a kernel.Address) AddressPayload {
	return AddressPayload{
		Line1:       a.Line1(),
		Line2:       a.Line2(),
		City:        a.City(),
		Province:    a.Province(),
		PostalCode:  a.PostalCode(),
		CountryCode: a.CountryCode(),
	}
}
