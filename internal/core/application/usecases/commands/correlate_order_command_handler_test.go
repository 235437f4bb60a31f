package commands_test

import (
	"testing"
	"time"

	"splitship/internal/core/application/usecases/commands"
	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCorrelateOrderCommandHandler_Handle_CorrelatesEveryMatchedPlan(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	first, _ := newPlan(t, f.shop)
	second, _ := newPlan(t, f.shop)

	f.expectTransaction(true)
	f.plans.On("FindForCorrelation", mock.Anything, "order-1", strPtr("cart-1")).
		Return([]*splitplan.SplitPlan{first, second}, nil).Once()
	f.plans.On("Update", mock.Anything, first).Return(nil).Once()
	f.plans.On("Update", mock.Anything, second).Return(nil).Once()

	cmd, err := commands.NewCorrelateOrderCommand(f.shop, " order-1 ", strPtr("cart-1"), strPtr("#1001"))
	require.NoError(t, err)

	count, err := commands.NewCorrelateOrderCommandHandler(f.factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	for _, plan := range []*splitplan.SplitPlan{first, second} {
		assert.Equal(t, splitplan.OrderCreated, plan.Status())
		assert.Equal(t, "order-1", *plan.OrderRef())
		events := plan.PendingEvents()
		assert.Equal(t, audit.OrderCreatedWebhook, events[len(events)-1].Type())
	}
	f.assertExpectations(t)
}

func TestCorrelateOrderCommandHandler_Handle_NoMatchIsNotAnError(t *testing.T) {
	f := newFixture()
	f.expectTransaction(true)
	f.plans.On("FindForCorrelation", mock.Anything, "order-1", (*string)(nil)).
		Return([]*splitplan.SplitPlan{}, nil).Once()

	cmd, err := commands.NewCorrelateOrderCommand(f.shop, "order-1", strPtr("  "), nil)
	require.NoError(t, err)

	count, err := commands.NewCorrelateOrderCommandHandler(f.factory).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Zero(t, count)
	f.assertExpectations(t)
}

func TestCorrelateOrderCommandHandler_Handle_DifferentOrderIsConflict(t *testing.T) {
	f := newFixture()
	plan, _ := newPlan(t, f.shop)
	require.NoError(t, plan.CorrelateOrder("order-0", strPtr("cart-1"), nil, time.Now()))

	f.expectTransaction(false)
	f.plans.On("FindForCorrelation", mock.Anything, "order-1", strPtr("cart-1")).
		Return([]*splitplan.SplitPlan{plan}, nil).Once()

	cmd, err := commands.NewCorrelateOrderCommand(f.shop, "order-1", strPtr("cart-1"), nil)
	require.NoError(t, err)

	_, err = commands.NewCorrelateOrderCommandHandler(f.factory).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	f.plans.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestNewCorrelateOrderCommand_RequiresOrderRef(t *testing.T) {
	f := newFixture()
	_, err := commands.NewCorrelateOrderCommand(f.shop, "   ", nil, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
