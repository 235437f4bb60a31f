package kernel

import (
	"errors"
	"fmt"
	"strings"

	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/guard"
)

const maxShopLength = 255

// ErrShopIsNotConstructed indicates a zero-value Shop.
var ErrShopIsNotConstructed = errors.New("Shop must be created via NewShop")

// Shop is the tenant scope key (for example "acme.myshopify.com").
// Every split plan, recipient and audit event belongs to exactly one shop
// and every repository is bound to one.
//
// A shop never contains ':' because it is the leading segment of
// "{shop}:{planID}:{attempt}" idempotency keys; keeping it colon-free makes
// the key unambiguous for any (shop, plan, attempt) triple.
type Shop struct {
	value string
	guard guard.ConstructorGuard
}

// NewShop trims and validates a tenant identifier.
func NewShop(value string) (Shop, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Shop{}, errs.NewValueIsRequiredError("shop")
	}
	if len(value) > maxShopLength {
		return Shop{}, errs.NewValueIsOutOfRangeError("shop length", len(value), 1, maxShopLength)
	}
	if strings.Contains(value, ":") {
		return Shop{}, errs.NewValueIsInvalidErrorWithCause("shop", fmt.Errorf("%q must not contain ':'", value))
	}
	return Shop{value: value, guard: guard.NewConstructorGuard()}, nil
}

// MustNewShop is NewShop for constants and tests; it panics on invalid input.
func MustNewShop(value string) Shop {
	s, err := NewShop(value)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Shop) String() string {
	return s.value
}

func (s Shop) IsEqual(other Shop) bool {
	return s.value == other.value
}

func (s Shop) Validate() error {
	return s.guard.Validate(ErrShopIsNotConstructed)
}
