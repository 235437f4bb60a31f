package splitplan

import (
	"fmt"
	"strings"

	"splitship/internal/pkg/errs"
)

// AckPolicy decides whether an outcome (ack or fail) may be recorded for a
// delivery that is not currently Sent.
type AckPolicy int

const (
	// AckPermissive records outcomes from any delivery status, including an
	// ack for a plan that was never sent.
	AckPermissive AckPolicy = iota

	// AckRequiresSent rejects outcomes unless the delivery is Sent.
	AckRequiresSent
)

// ParseAckPolicy accepts "permissive" and "requires_sent"; blank means permissive.
func ParseAckPolicy(s string) (AckPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return AckPermissive, nil
	case "requires_sent":
		return AckRequiresSent, nil
	default:
		return AckPermissive, errs.NewValueIsInvalidErrorWithCause("ack policy", fmt.Errorf("%q is not a known policy", s))
	}
}

func (p AckPolicy) String() string {
	if p == AckRequiresSent {
		return "requires_sent"
	}
	return "permissive"
}
