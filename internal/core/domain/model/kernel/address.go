package kernel

import (
	"errors"
	"fmt"
	"strings"

	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/guard"
)

// ErrAddressIsNotConstructed indicates a zero-value Address.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress")

// Address is a recipient's postal address as handed to the fulfillment
// partner. Line2 and Province are optional; CountryCode is an ISO 3166-1
// alpha-2 code, normalized to upper case.
type Address struct {
	line1       string
	line2       *string
	city        string
	province    *string
	postalCode  string
	countryCode string

	guard guard.ConstructorGuard
}

// NewAddress validates every field and reports all problems at once.
//
// Example:
//
//	addr, err := kernel.NewAddress("1 Main St", nil, "Springfield", nil, "12345", "us")
//	// addr.CountryCode() == "US"
func NewAddress(line1 string, line2 *string, city string, province *string, postalCode, countryCode string) (Address, error) {
	a := Address{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		a.setLine1(line1),
		a.setCity(city),
		a.setPostalCode(postalCode),
		a.setCountryCode(countryCode),
	); err != nil {
		return Address{}, err
	}
	a.line2 = optional(line2)
	a.province = optional(province)

	return a, nil
}

func (a Address) Line1() string       { return a.line1 }
func (a Address) Line2() *string      { return a.line2 }
func (a Address) City() string        { return a.city }
func (a Address) Province() *string   { return a.province }
func (a Address) PostalCode() string  { return a.postalCode }
func (a Address) CountryCode() string { return a.countryCode }

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a *Address) setLine1(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errs.NewValueIsRequiredError("address line1")
	}
	a.line1 = v
	return nil
}

func (a *Address) setCity(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errs.NewValueIsRequiredError("address city")
	}
	a.city = v
	return nil
}

func (a *Address) setPostalCode(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errs.NewValueIsRequiredError("address postal code")
	}
	a.postalCode = v
	return nil
}

func (a *Address) setCountryCode(v string) error {
	v = strings.ToUpper(strings.TrimSpace(v))
	if len(v) != 2 {
		return errs.NewValueIsInvalidErrorWithCause("address country code", fmt.Errorf("%q is not a two-letter code", v))
	}
	for _, r := range v {
		if r < 'A' || r > 'Z' {
			return errs.NewValueIsInvalidErrorWithCause("address country code", fmt.Errorf("%q is not a two-letter code", v))
		}
	}
	a.countryCode = v
	return nil
}

// optional trims v and maps blank strings to nil.
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
