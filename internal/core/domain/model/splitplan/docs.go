// Package splitplan holds the SplitPlan aggregate: one order line's quantity
// split across recipients, with a lifecycle axis (Status) and an independent
// delivery axis (DeliveryStatus).
//
// Allocation rules live in Validate, a pure function usable on raw input.
// Lifecycle and delivery transitions are methods on the two status types so
// they can be exercised without an aggregate. Idempotency keys for partner
// dispatch are derived by IdempotencyKey from (shop, plan, attempt) only.
//
// Every accepted mutation of a SplitPlan records exactly one audit.Event; the
// persistence adapter writes the plan row and its pending events in one
// transaction.
package splitplan
