package commands_test

import (
	"errors"
	"fmt"
	"testing"

	"splitship/internal/core/application/usecases/commands"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/recipient"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/core/domain/services"
	"splitship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDispatchHandler(f *fixture) commands.DispatchDeliveryCommandHandler {
	return commands.NewDispatchDeliveryCommandHandler(
		f.factory,
		services.NewDeliveryCoordinator(splitplan.AckPermissive),
		f.partner,
	)
}

func TestDispatchDeliveryCommandHandler_Handle_SendThenRetry(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	plan, recipients := newPlan(t, f.shop)

	f.uow.On("Begin", mock.Anything).Return(nil).Twice()
	f.uow.On("Commit", mock.Anything).Return(nil).Twice()
	f.plans.On("GetForUpdate", mock.Anything, plan.ID()).Return(plan, nil).Twice()
	f.recipients.On("FindByIDs", mock.Anything, plan.RecipientIDs()).Return(recipients, nil).Twice()
	f.plans.On("Update", mock.Anything, plan).Return(nil).Twice()

	firstKey := fmt.Sprintf("acme:%s:1", plan.ID())
	secondKey := fmt.Sprintf("acme:%s:2", plan.ID())
	f.partner.On("Send", mock.Anything, firstKey, mock.AnythingOfType("[]uint8")).Return(nil).Once()
	f.partner.On("Send", mock.Anything, secondKey, mock.AnythingOfType("[]uint8")).Return(nil).Once()

	h := newDispatchHandler(f)

	send, err := commands.NewDispatchDeliveryCommand(f.shop, plan.ID(), "send")
	require.NoError(t, err)
	first, err := h.Handle(ctx, send)
	require.NoError(t, err)
	assert.True(t, first.Sent())
	assert.Equal(t, 1, first.Attempt)
	assert.Equal(t, firstKey, first.IdempotencyKey)

	retry, err := commands.NewDispatchDeliveryCommand(f.shop, plan.ID(), "retry")
	require.NoError(t, err)
	second, err := h.Handle(ctx, retry)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Attempt)
	assert.Equal(t, secondKey, second.IdempotencyKey)

	assert.Equal(t, splitplan.DeliverySent, plan.DeliveryStatus())
	assert.Equal(t, 2, plan.DeliveryAttempts())
	assert.Equal(t, secondKey, *plan.IdempotencyKey())
	f.assertExpectations(t)
}

func TestDispatchDeliveryCommandHandler_Handle_TransportErrorIsRecorded(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	plan, recipients := newPlan(t, f.shop)

	f.expectTransaction(true)
	f.plans.On("GetForUpdate", mock.Anything, plan.ID()).Return(plan, nil).Once()
	f.recipients.On("FindByIDs", mock.Anything, mock.Anything).Return(recipients, nil).Once()
	f.plans.On("Update", mock.Anything, plan).Return(nil).Once()
	f.partner.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	cmd, err := commands.NewDispatchDeliveryCommand(f.shop, plan.ID(), "send")
	require.NoError(t, err)

	result, err := newDispatchHandler(f).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, result.Sent())
	require.EqualError(t, result.TransportErr, "connection reset")
	assert.Equal(t, splitplan.DeliveryFailed, plan.DeliveryStatus())
	assert.Equal(t, 1, plan.DeliveryAttempts())
	assert.Contains(t, *plan.LastDeliveryError(), "connection reset")
	f.assertExpectations(t)
}

func TestDispatchDeliveryCommandHandler_Handle_CancelledCallerStillCommits(t *testing.T) {
	f := newFixture()
	plan, recipients := newPlan(t, f.shop)
	ctx, cancel := contextWithCancel(t)

	f.expectTransaction(true)
	f.plans.On("GetForUpdate", mock.Anything, plan.ID()).Return(plan, nil).Once()
	f.recipients.On("FindByIDs", mock.Anything, mock.Anything).Return(recipients, nil).Once()
	f.partner.On("Send", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(errors.New("context canceled")).Once()
	f.plans.On("Update", mock.Anything, plan).Return(nil).Once()

	cmd, err := commands.NewDispatchDeliveryCommand(f.shop, plan.ID(), "send")
	require.NoError(t, err)

	result, err := newDispatchHandler(f).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, result.Sent())
	f.assertExpectations(t)
}

func TestDispatchDeliveryCommandHandler_Handle_AckedPlanIsConflict(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	plan, recipients := newPlan(t, f.shop)
	require.NoError(t, plan.Acknowledge(splitplan.AckPermissive, plan.UpdatedAt()))

	f.expectTransaction(false)
	f.plans.On("GetForUpdate", mock.Anything, plan.ID()).Return(plan, nil).Once()
	f.recipients.On("FindByIDs", mock.Anything, mock.Anything).Return(recipients, nil).Once()

	cmd, err := commands.NewDispatchDeliveryCommand(f.shop, plan.ID(), "retry")
	require.NoError(t, err)

	_, err = newDispatchHandler(f).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	f.partner.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	f.plans.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestDispatchDeliveryCommandHandler_Handle_MissingRecipientSendsNothing(t *testing.T) {
	ctx := t.Context()
	f := newFixture()
	plan, recipients := newPlan(t, f.shop)

	f.expectTransaction(false)
	f.plans.On("GetForUpdate", mock.Anything, plan.ID()).Return(plan, nil).Once()
	f.recipients.On("FindByIDs", mock.Anything, mock.Anything).
		Return([]*recipient.Recipient{recipients[0]}, nil).Once()

	cmd, err := commands.NewDispatchDeliveryCommand(f.shop, plan.ID(), "send")
	require.NoError(t, err)

	_, err = newDispatchHandler(f).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, 0, plan.DeliveryAttempts())
	f.partner.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestDispatchDeliveryCommandHandler_Handle_PlanNotFound(t *testing.T) {
	f := newFixture()
	id := kernel.NewUUID()

	f.expectTransaction(false)
	f.plans.On("GetForUpdate", mock.Anything, id).
		Return(nil, errs.NewObjectNotFoundError("split plan", id.String())).Once()

	cmd, err := commands.NewDispatchDeliveryCommand(f.shop, id, "send")
	require.NoError(t, err)

	_, err = newDispatchHandler(f).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.assertExpectations(t)
}

func TestNewDispatchDeliveryCommand(t *testing.T) {
	shop := kernel.MustNewShop("acme")
	id := kernel.NewUUID()

	tests := []struct {
		name      string
		operation string
		wantErr   error
	}{
		{name: "send", operation: "send"},
		{name: "retry", operation: "retry"},
		{name: "ack does not dispatch", operation: "ack", wantErr: errs.ErrConflict},
		{name: "unknown operation", operation: "resend", wantErr: errs.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewDispatchDeliveryCommand(shop, id, tt.operation)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, splitplan.DeliveryOperation(tt.operation), cmd.Operation())
			assert.Equal(t, id, cmd.PlanID())
		})
	}

	_, err := commands.NewDispatchDeliveryCommand(shop, kernel.UUID{}, "send")
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
