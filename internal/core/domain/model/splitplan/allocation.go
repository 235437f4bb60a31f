package splitplan

import (
	"fmt"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/errs"
)

// AllocationInput is an unvalidated allocation as it arrives from a caller.
type AllocationInput struct {
	RecipientID string
	Quantity    int
}

// Allocation assigns a positive quantity of the plan's line to one recipient.
// A plan holds at most one allocation per recipient.
type Allocation struct {
	recipientID kernel.UUID
	quantity    int
}

// NewAllocation validates a single allocation. Plan-level rules (uniqueness,
// sum) are checked by ParseAllocations.
func NewAllocation(recipientID kernel.UUID, quantity int) (Allocation, error) {
	if err := recipientID.Validate(); err != nil {
		return Allocation{}, err
	}
	if quantity <= 0 {
		return Allocation{}, errs.NewValueIsInvalidErrorWithCause(
			"allocation quantity",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}
	return Allocation{recipientID: recipientID, quantity: quantity}, nil
}

func (a Allocation) RecipientID() kernel.UUID { return a.recipientID }
func (a Allocation) Quantity() int            { return a.quantity }

// Input converts the allocation back to its raw form, for revalidation.
func (a Allocation) Input() AllocationInput {
	return AllocationInput{RecipientID: a.recipientID.String(), Quantity: a.quantity}
}

// ParseAllocations runs Validate and, when the set is valid, converts every
// entry into an Allocation. Recipient keys that are not identifiers are
// reported as additional problems.
func ParseAllocations(lineQuantity int, inputs []AllocationInput) ([]Allocation, error) {
	result := Validate(lineQuantity, inputs)
	if !result.Valid {
		return nil, result.Err()
	}

	allocations := make([]Allocation, 0, len(inputs))
	var problems []string
	for i, in := range inputs {
		id, err := kernel.UUIDFromString(in.RecipientID)
		if err != nil {
			problems = append(problems, fmt.Sprintf("allocation %d: recipient %q is not a valid identifier", i, in.RecipientID))
			continue
		}
		allocation, err := NewAllocation(id, in.Quantity)
		if err != nil {
			problems = append(problems, fmt.Sprintf("allocation %d: %v", i, err))
			continue
		}
		allocations = append(allocations, allocation)
	}
	if len(problems) > 0 {
		return nil, errs.NewValidationError(problems...)
	}
	return allocations, nil
}

func sumQuantities(allocations []Allocation) int {
	total := 0
	for _, a := range allocations {
		total += a.quantity
	}
	return total
}

func allocationInputs(allocations []Allocation) []AllocationInput {
	inputs := make([]AllocationInput, len(allocations))
	for i, a := range allocations {
		inputs[i] = a.Input()
	}
	return inputs
}
