// Package services holds domain services that need more than one aggregate.
//
// DeliveryCoordinator combines a SplitPlan with the address-book Recipients
// it references to build fulfillment instructions and the partner payload,
// and drives dispatch attempts through a Partner. FulfillmentPayload is the
// wire contract; it is validated against an embedded JSON schema and
// encoded as canonical JSON so identical attempts produce identical bytes.
package services
