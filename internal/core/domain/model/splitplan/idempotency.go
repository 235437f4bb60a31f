package splitplan

import (
	"fmt"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/errs"
)

// IdempotencyKey derives the partner deduplication key for one dispatch
// attempt: "{shop}:{planID}:{attempt}". The same inputs always give the same
// key and distinct attempts give distinct keys.
func IdempotencyKey(shop kernel.Shop, planID kernel.UUID, attempt int) (string, error) {
	if err := shop.Validate(); err != nil {
		return "", err
	}
	if err := planID.Validate(); err != nil {
		return "", err
	}
	if attempt < 1 {
		return "", errs.NewValueIsOutOfRangeError("attempt", attempt, 1, "unbounded")
	}
	return fmt.Sprintf("%s:%s:%d", shop.String(), planID.String(), attempt), nil
}
