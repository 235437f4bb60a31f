package ports

import "context"

// PartnerClient delivers one fulfillment payload to the external partner.
// payload is the canonical JSON document; idempotencyKey identifies the
// attempt so the partner can collapse repeated calls. Implementations do
// not retry.
type PartnerClient interface {
	Send(ctx context.Context, idempotencyKey string, payload []byte) error
}
