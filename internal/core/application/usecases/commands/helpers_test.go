package commands_test

import (
	"context"
	"testing"
	"time"

	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/core/domain/model/splitplan"

	"github.com/stretchr/testify/require"
)

func newRecipient(t *testing.T, shop kernel.Shop, name string) *recipient.Recipient {
	t.Helper()
	address, err := kernel.NewAddress("1 Main St", nil, "Springfield", nil, "12345", "US")
	require.NoError(t, err)
	r, err := recipient.NewRecipient(shop, name, address)
	require.NoError(t, err)
	return r
}

// newPlan builds a draft plan of lineQuantity 4 split 2/2 between two
// new recipients.
func newPlan(t *testing.T, shop kernel.Shop) (*splitplan.SplitPlan, []*recipient.Recipient) {
	t.Helper()
	recipients := []*recipient.Recipient{newRecipient(t, shop, "Alice"), newRecipient(t, shop, "Bob")}
	plan, err := splitplan.NewSplitPlan(shop, "line-1", 4, []splitplan.AllocationInput{
		{RecipientID: recipients[0].ID().String(), Quantity: 2},
		{RecipientID: recipients[1].ID().String(), Quantity: 2},
	}, nil, time.Now())
	require.NoError(t, err)
	plan.MarkPersisted(1)
	return plan, recipients
}

func strPtr(s string) *string { return &s }

func contextWithCancel(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(t.Context())
	t.Cleanup(cancel)
	return ctx, cancel
}
