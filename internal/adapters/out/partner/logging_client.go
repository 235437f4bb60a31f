package partner

import (
	"context"

	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/logger"
)

// LoggingClient stands in for the partner when no endpoint is configured.
// Every payload is logged and accepted.
type LoggingClient struct {
	logger *logger.Logger
}

func NewLoggingClient(log *logger.Logger) (*LoggingClient, error) {
	if log == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	return &LoggingClient{logger: log.WithComponent("partner-log")}, nil
}

func (c *LoggingClient) Send(_ context.Context, idempotencyKey string, payload []byte) error {
	if idempotencyKey == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}
	c.logger.Info("fulfillment payload", "idempotencyKey", idempotencyKey, "payload", string(payload))
	return nil
}
