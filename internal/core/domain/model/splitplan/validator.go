package splitplan

import (
	"fmt"
	"math"
	"strings"

	"splitship/internal/pkg/errs"
)

// ValidationResult is the outcome of validating one allocation set.
// Errors holds every violation found, in input order.
type ValidationResult struct {
	Valid             bool
	AllocatedQuantity int
	Errors            []string
}

// Err returns nil for a valid result and a *errs.ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errs.NewValidationError(r.Errors...)
}

// Validate checks that allocations partition lineQuantity: the line quantity
// is positive, at least one allocation exists, every allocation names a
// recipient with a positive quantity, no recipient appears twice and the
// quantities sum to lineQuantity. All violations are reported together.
//
// Validate is pure; it does not check that recipients exist.
func Validate(lineQuantity int, allocations []AllocationInput) ValidationResult {
	var problems []string

	if lineQuantity <= 0 {
		problems = append(problems, fmt.Sprintf("line quantity must be a positive integer, got %d", lineQuantity))
	}
	if len(allocations) == 0 {
		problems = append(problems, "at least one recipient allocation is required")
	}

	allocated := 0
	overflowed := false
	seen := make(map[string]int, len(allocations))
	for i, a := range allocations {
		if !overflowed {
			allocated, overflowed = AddQuantity(allocated, a.Quantity)
		}
		key := strings.TrimSpace(a.RecipientID)

		if key == "" {
			problems = append(problems, fmt.Sprintf("allocation %d: recipient is required", i))
		} else if first, ok := seen[key]; ok {
			problems = append(problems, fmt.Sprintf("allocation %d: recipient %s is already allocated by allocation %d", i, key, first))
		} else {
			seen[key] = i
		}

		if a.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("allocation %d: quantity must be a positive integer, got %d", i, a.Quantity))
		}
	}

	if overflowed {
		problems = append(problems, fmt.Sprintf("allocated quantity overflows, it exceeds line quantity %d", lineQuantity))
	} else if len(allocations) > 0 && allocated != lineQuantity {
		problems = append(problems, fmt.Sprintf("allocated quantity %d does not match line quantity %d", allocated, lineQuantity))
	}

	return ValidationResult{
		Valid:             len(problems) == 0,
		AllocatedQuantity: allocated,
		Errors:            problems,
	}
}

// AddQuantity adds q to sum. On integer overflow it returns sum unchanged
// and true.
func AddQuantity(sum, q int) (int, bool) {
	if (q > 0 && sum > math.MaxInt-q) || (q < 0 && sum < math.MinInt-q) {
		return sum, true
	}
	return sum + q, false
}
