package queries

import (
	"errors"
	"time"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/guard"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var ErrListSplitPlansQueryIsNotConstructed = errors.New(
	"ListSplitPlansQuery must be created via NewListSplitPlansQuery constructor",
)

// ListSplitPlansQuery pages through a shop's plans, newest first.
// A zero limit selects DefaultPageSize.
type ListSplitPlansQuery struct {
	shop   kernel.Shop
	limit  int
	offset int

	guard guard.ConstructorGuard
}

func NewListSplitPlansQuery(shop kernel.Shop, limit, offset int) (ListSplitPlansQuery, error) {
	if limit == 0 {
		limit = DefaultPageSize
	}

	var limitErr, offsetErr error
	if limit < 1 || limit > MaxPageSize {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize)
	}
	if offset < 0 {
		offsetErr = errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	if err := errors.Join(shop.Validate(), limitErr, offsetErr); err != nil {
		return ListSplitPlansQuery{}, err
	}

	return ListSplitPlansQuery{shop: shop, limit: limit, offset: offset, guard: guard.NewConstructorGuard()}, nil
}

func (q ListSplitPlansQuery) Validate() error {
	return q.guard.Validate(ErrListSplitPlansQueryIsNotConstructed)
}

func (q ListSplitPlansQuery) Shop() kernel.Shop { return q.shop }
func (q ListSplitPlansQuery) Limit() int        { return q.limit }
func (q ListSplitPlansQuery) Offset() int       { return q.offset }

// SplitPlanSummary is one row of a plan listing.
type SplitPlanSummary struct {
	ID               kernel.UUID
	SourceLineRef    string
	LineQuantity     int
	OrderRef         *string
	Status           string
	DeliveryStatus   string
	DeliveryAttempts int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
