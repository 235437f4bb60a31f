// Package partner holds the outbound adapters that hand fulfillment payloads
// to the fulfillment partner.
//
// HTTPClient posts the canonical payload bytes with an Idempotency-Key header
// behind a circuit breaker. LoggingClient accepts everything and writes it to
// the log, for local runs without a partner endpoint.
package partner
