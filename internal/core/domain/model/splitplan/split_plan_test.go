package splitplan_test

import (
	"errors"
	"testing"
	"time"

	"splitship/internal/core/domain/model/audit"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/model/splitplan"
	"splitship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newPlan(t *testing.T) (*splitplan.SplitPlan, kernel.UUID, kernel.UUID) {
	t.Helper()
	r1, r2 := kernel.NewUUID(), kernel.NewUUID()
	plan, err := splitplan.NewSplitPlan(
		kernel.MustNewShop("acme"),
		"gid://shop/LineItem/1",
		4,
		[]splitplan.AllocationInput{
			{RecipientID: r1.String(), Quantity: 2},
			{RecipientID: r2.String(), Quantity: 2},
		},
		strPtr("cart-1"),
		t0,
	)
	require.NoError(t, err)
	return plan, r1, r2
}

func dispatch(t *testing.T, plan *splitplan.SplitPlan, at time.Time) string {
	t.Helper()
	attempt, key, err := plan.NextDispatch()
	require.NoError(t, err)
	require.NoError(t, plan.RecordDispatched(attempt, key, map[string]string{"idempotencyKey": key}, at))
	return key
}

func eventTypes(plan *splitplan.SplitPlan) []audit.EventType {
	var types []audit.EventType
	for _, ev := range plan.PendingEvents() {
		types = append(types, ev.Type())
	}
	return types
}

func TestNewSplitPlan(t *testing.T) {
	t.Run("should start in draft with pending delivery", func(t *testing.T) {
		plan, r1, _ := newPlan(t)

		require.NoError(t, plan.Validate())
		assert.Equal(t, splitplan.Draft, plan.Status())
		assert.Equal(t, splitplan.DeliveryPending, plan.DeliveryStatus())
		assert.Equal(t, 0, plan.DeliveryAttempts())
		assert.Nil(t, plan.IdempotencyKey())
		assert.Equal(t, 4, plan.AllocatedQuantity())
		assert.True(t, plan.Allocations()[0].RecipientID().IsEqual(r1))
		assert.Equal(t, "cart-1", *plan.CartToken())
		assert.Equal(t, []audit.EventType{audit.SplitPlanCreated}, eventTypes(plan))
	})

	t.Run("should report every allocation problem at once", func(t *testing.T) {
		_, err := splitplan.NewSplitPlan(kernel.MustNewShop("acme"), "line", 4, []splitplan.AllocationInput{
			{RecipientID: kernel.NewUUID().String(), Quantity: 2},
			{RecipientID: "", Quantity: 3},
		}, nil, t0)

		var validationErr *errs.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Len(t, validationErr.Problems, 2)
	})

	t.Run("should require a source line reference", func(t *testing.T) {
		_, err := splitplan.NewSplitPlan(kernel.MustNewShop("acme"), "  ", 1, []splitplan.AllocationInput{
			{RecipientID: kernel.NewUUID().String(), Quantity: 1},
		}, nil, t0)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value should not validate", func(t *testing.T) {
		var plan splitplan.SplitPlan
		assert.ErrorIs(t, plan.Validate(), splitplan.ErrSplitPlanIsNotConstructed)
	})
}

func TestSplitPlan_Update(t *testing.T) {
	t.Run("should replace allocations and line while in draft", func(t *testing.T) {
		plan, _, _ := newPlan(t)
		r3 := kernel.NewUUID()

		err := plan.Update(strPtr("line-2"), intPtr(3), []splitplan.AllocationInput{
			{RecipientID: r3.String(), Quantity: 3},
		}, t0.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, "line-2", plan.SourceLineRef())
		assert.Equal(t, 3, plan.LineQuantity())
		assert.Equal(t, []kernel.UUID{r3}, plan.RecipientIDs())
		assert.Equal(t, []audit.EventType{audit.SplitPlanCreated, audit.SplitPlanUpdated}, eventTypes(plan))
	})

	t.Run("should leave the plan untouched on validation failure", func(t *testing.T) {
		plan, _, _ := newPlan(t)

		err := plan.Update(nil, nil, []splitplan.AllocationInput{
			{RecipientID: kernel.NewUUID().String(), Quantity: 5},
		}, t0)

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, 4, plan.AllocatedQuantity())
		assert.Len(t, plan.PendingEvents(), 1)
	})

	t.Run("should freeze line quantity once an order is correlated", func(t *testing.T) {
		plan, r1, r2 := newPlan(t)
		require.NoError(t, plan.CorrelateOrder("order-1", nil, nil, t0))

		err := plan.Update(nil, intPtr(5), []splitplan.AllocationInput{
			{RecipientID: r1.String(), Quantity: 5},
		}, t0)
		assert.ErrorIs(t, err, errs.ErrConflict)

		err = plan.Update(nil, intPtr(4), []splitplan.AllocationInput{
			{RecipientID: r1.String(), Quantity: 1},
			{RecipientID: r2.String(), Quantity: 3},
		}, t0)
		assert.NoError(t, err)
	})

	t.Run("should freeze source line reference outside draft", func(t *testing.T) {
		plan, r1, _ := newPlan(t)
		require.NoError(t, plan.ApplyLifecycle(splitplan.MarkReadyForFulfillment, t0))

		err := plan.Update(strPtr("other-line"), nil, []splitplan.AllocationInput{
			{RecipientID: r1.String(), Quantity: 4},
		}, t0)

		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, "gid://shop/LineItem/1", plan.SourceLineRef())
	})
}

func TestSplitPlan_CorrelateOrder(t *testing.T) {
	t.Run("should move draft to order created and be re-entrant", func(t *testing.T) {
		plan, _, _ := newPlan(t)

		require.NoError(t, plan.CorrelateOrder("order-1", strPtr("cart-1"), strPtr("#1001"), t0))
		require.NoError(t, plan.CorrelateOrder("order-1", nil, nil, t0))

		assert.Equal(t, splitplan.OrderCreated, plan.Status())
		assert.Equal(t, "order-1", *plan.OrderRef())
		assert.Equal(t, "#1001", *plan.OrderName())
		assert.Equal(t, 2, len(plan.PendingEvents())-1)
	})

	t.Run("should not move a ready plan back", func(t *testing.T) {
		plan, _, _ := newPlan(t)
		require.NoError(t, plan.ApplyLifecycle(splitplan.MarkReadyForFulfillment, t0))

		require.NoError(t, plan.CorrelateOrder("order-1", nil, nil, t0))

		assert.Equal(t, splitplan.ReadyForFulfillment, plan.Status())
	})

	t.Run("should reject a different order or cart", func(t *testing.T) {
		plan, _, _ := newPlan(t)
		require.NoError(t, plan.CorrelateOrder("order-1", nil, nil, t0))

		assert.ErrorIs(t, plan.CorrelateOrder("order-2", nil, nil, t0), errs.ErrConflict)
		assert.ErrorIs(t, plan.CorrelateOrder("order-1", strPtr("cart-9"), nil, t0), errs.ErrConflict)
		assert.ErrorIs(t, plan.CorrelateOrder(" ", nil, nil, t0), errs.ErrValueIsRequired)
	})
}

func TestSplitPlan_ApplyLifecycle(t *testing.T) {
	plan, _, _ := newPlan(t)

	require.ErrorIs(t, plan.ApplyLifecycle(splitplan.DeclareFulfilledComplete, t0), errs.ErrConflict)
	require.NoError(t, plan.ApplyLifecycle(splitplan.MarkReadyForFulfillment, t0))
	require.NoError(t, plan.ApplyLifecycle(splitplan.DeclareFulfilledPartial, t0))
	require.NoError(t, plan.ApplyLifecycle(splitplan.DeclareFulfilledComplete, t0))
	require.NoError(t, plan.ApplyLifecycle(splitplan.DeclareFulfilledComplete, t0))
	require.ErrorIs(t, plan.ApplyLifecycle(splitplan.MarkReadyForFulfillment, t0), errs.ErrConflict)
	require.ErrorIs(t, plan.ApplyLifecycle(splitplan.LifecycleOperation("archive"), t0), errs.ErrConflict)

	assert.Equal(t, splitplan.FulfilledComplete, plan.Status())
	assert.Equal(t, []audit.EventType{
		audit.SplitPlanCreated,
		audit.SplitPlanReadyForFulfillment,
		audit.SplitPlanFulfilledPartial,
		audit.SplitPlanFulfilledComplete,
		audit.SplitPlanFulfilledComplete,
	}, eventTypes(plan))
}

func TestSplitPlan_Dispatch(t *testing.T) {
	t.Run("first send then retry derive attempt-numbered keys", func(t *testing.T) {
		plan, _, _ := newPlan(t)
		prefix := "acme:" + plan.ID().String() + ":"

		first := dispatch(t, plan, t0.Add(time.Minute))
		assert.Equal(t, prefix+"1", first)
		assert.Equal(t, splitplan.DeliverySent, plan.DeliveryStatus())
		assert.Equal(t, 1, plan.DeliveryAttempts())
		assert.Equal(t, t0.Add(time.Minute), *plan.LastDeliveryAt())

		second := dispatch(t, plan, t0.Add(2*time.Minute))
		assert.Equal(t, prefix+"2", second)
		assert.Equal(t, second, *plan.IdempotencyKey())
		assert.Equal(t, []audit.EventType{
			audit.SplitPlanCreated,
			audit.SplitPlanDeliverySent,
			audit.SplitPlanDeliveryRetried,
		}, eventTypes(plan))
	})

	t.Run("ack keeps the stored key", func(t *testing.T) {
		plan, _, _ := newPlan(t)
		key := dispatch(t, plan, t0)

		require.NoError(t, plan.Acknowledge(splitplan.AckPermissive, t0))

		assert.Equal(t, splitplan.DeliveryAcked, plan.DeliveryStatus())
		assert.Equal(t, key, *plan.IdempotencyKey())
		assert.Equal(t, 1, plan.DeliveryAttempts())

		_, _, err := plan.NextDispatch()
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("transport failure counts the attempt", func(t *testing.T) {
		plan, _, _ := newPlan(t)
		attempt, key, err := plan.NextDispatch()
		require.NoError(t, err)

		require.NoError(t, plan.RecordDispatchFailed(attempt, key, nil, errors.New("connection refused"), t0))

		assert.Equal(t, splitplan.DeliveryFailed, plan.DeliveryStatus())
		assert.Equal(t, 1, plan.DeliveryAttempts())
		assert.Equal(t, key, *plan.IdempotencyKey())
		assert.Equal(t, "connection refused", *plan.LastDeliveryError())

		retryKey := dispatch(t, plan, t0)
		assert.Equal(t, "acme:"+plan.ID().String()+":2", retryKey)
		assert.Nil(t, plan.LastDeliveryError())
	})

	t.Run("outcome for a stale attempt is refused", func(t *testing.T) {
		plan, _, _ := newPlan(t)
		attempt, key, err := plan.NextDispatch()
		require.NoError(t, err)
		require.NoError(t, plan.RecordDispatched(attempt, key, map[string]string{"idempotencyKey": key}, t0))

		err = plan.RecordDispatched(attempt, key, map[string]string{"idempotencyKey": key}, t0)

		assert.ErrorIs(t, err, splitplan.ErrAttemptOutOfOrder)
		assert.Equal(t, 1, plan.DeliveryAttempts())
	})

	t.Run("key must match the attempt", func(t *testing.T) {
		plan, _, _ := newPlan(t)

		err := plan.RecordDispatched(1, "acme:other:1", map[string]string{}, t0)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestSplitPlan_AckNeverSentIsPermitted(t *testing.T) {
	plan, _, _ := newPlan(t)

	require.NoError(t, plan.Acknowledge(splitplan.AckPermissive, t0))

	assert.Equal(t, splitplan.DeliveryAcked, plan.DeliveryStatus())
	assert.Equal(t, 0, plan.DeliveryAttempts())
}

func TestSplitPlan_AckNeverSentRejectedWhenSentRequired(t *testing.T) {
	plan, _, _ := newPlan(t)

	err := plan.Acknowledge(splitplan.AckRequiresSent, t0)

	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, splitplan.DeliveryPending, plan.DeliveryStatus())
	assert.Len(t, plan.PendingEvents(), 1)
}

func TestSplitPlan_Fail(t *testing.T) {
	plan, _, _ := newPlan(t)
	dispatch(t, plan, t0)

	require.ErrorIs(t, plan.Fail(splitplan.AckPermissive, " ", t0), errs.ErrValueIsRequired)
	require.NoError(t, plan.Fail(splitplan.AckPermissive, "parcel lost", t0))

	assert.Equal(t, splitplan.DeliveryFailed, plan.DeliveryStatus())
	assert.Equal(t, 1, plan.DeliveryAttempts())
	assert.Equal(t, "parcel lost", *plan.LastDeliveryError())
}

func TestSplitPlan_TrailReplaysToCurrentState(t *testing.T) {
	plan, _, _ := newPlan(t)
	at := t0

	steps := []func() error{
		func() error { return plan.CorrelateOrder("order-1", nil, strPtr("#1"), at) },
		func() error { return plan.RecordInstructionsGenerated([]string{"x"}, at) },
		func() error { return plan.ApplyLifecycle(splitplan.MarkReadyForFulfillment, at) },
		func() error {
			attempt, key, err := plan.NextDispatch()
			if err != nil {
				return err
			}
			return plan.RecordDispatchFailed(attempt, key, nil, errors.New("timeout"), at)
		},
		func() error { dispatch(t, plan, at); return nil },
		func() error { return plan.Fail(splitplan.AckPermissive, "rejected", at) },
		func() error { dispatch(t, plan, at); return nil },
		func() error { return plan.Acknowledge(splitplan.AckPermissive, at) },
		func() error { return plan.ApplyLifecycle(splitplan.DeclareFulfilledPartial, at) },
	}

	for i, step := range steps {
		before := len(plan.PendingEvents())
		require.NoError(t, step(), "step %d", i)
		require.Len(t, plan.PendingEvents(), before+1, "step %d must append exactly one event", i)

		projection, err := audit.Replay(plan.PendingEvents())
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, plan.Status().String(), projection.Status, "step %d", i)
		assert.Equal(t, plan.DeliveryStatus().String(), projection.DeliveryStatus, "step %d", i)
		assert.Equal(t, plan.DeliveryAttempts(), projection.DeliveryAttempts, "step %d", i)
	}

	projection, err := audit.Replay(plan.PendingEvents())
	require.NoError(t, err)
	assert.Equal(t, *plan.IdempotencyKey(), projection.IdempotencyKey)
	assert.Equal(t, 3, projection.DeliveryAttempts)
}

func TestSplitPlan_UpdatedAtNeverMovesBack(t *testing.T) {
	plan, _, _ := newPlan(t)

	require.NoError(t, plan.ApplyLifecycle(splitplan.MarkReadyForFulfillment, t0.Add(-time.Hour)))

	assert.Equal(t, t0, plan.UpdatedAt())
	assert.Equal(t, t0, plan.PendingEvents()[1].CreatedAt())
}

func TestRestoreSplitPlan(t *testing.T) {
	plan, _, _ := newPlan(t)
	dispatch(t, plan, t0)

	snapshot := splitplan.Snapshot{
		ID:               plan.ID(),
		Shop:             plan.Shop(),
		SourceLineRef:    plan.SourceLineRef(),
		LineQuantity:     plan.LineQuantity(),
		Allocations:      plan.Allocations(),
		CartToken:        plan.CartToken(),
		Status:           plan.Status(),
		DeliveryStatus:   plan.DeliveryStatus(),
		DeliveryAttempts: plan.DeliveryAttempts(),
		IdempotencyKey:   plan.IdempotencyKey(),
		LastDeliveryAt:   plan.LastDeliveryAt(),
		CreatedAt:        plan.CreatedAt(),
		UpdatedAt:        plan.UpdatedAt(),
		Version:          3,
	}

	t.Run("should rebuild the plan without pending events", func(t *testing.T) {
		restored, err := splitplan.RestoreSplitPlan(snapshot)

		require.NoError(t, err)
		assert.Equal(t, int64(3), restored.Version())
		assert.Equal(t, 1, restored.PersistedDeliveryAttempts())
		assert.Empty(t, restored.PendingEvents())

		attempt, _, err := restored.NextDispatch()
		require.NoError(t, err)
		assert.Equal(t, 2, attempt)
	})

	t.Run("should refuse a broken partition", func(t *testing.T) {
		broken := snapshot
		broken.LineQuantity = 7

		_, err := splitplan.RestoreSplitPlan(broken)

		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("mark persisted resets the baseline", func(t *testing.T) {
		restored, err := splitplan.RestoreSplitPlan(snapshot)
		require.NoError(t, err)
		dispatch(t, restored, t0)

		restored.MarkPersisted(4)

		assert.Equal(t, int64(4), restored.Version())
		assert.Equal(t, 2, restored.PersistedDeliveryAttempts())
		assert.Empty(t, restored.PendingEvents())
	})
}
