package partner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/logger"

	"github.com/sony/gobreaker"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"

	defaultTimeout             = 10 * time.Second
	defaultConsecutiveFailures = 5
	defaultOpenTimeout         = 30 * time.Second

	// maxErrorBody bounds how much of a rejected response is kept in the error.
	maxErrorBody = 512
)

// StatusError is returned when the partner answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("partner responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("partner responded with status %d: %s", e.StatusCode, e.Body)
}

// HTTPClientConfig configures HTTPClient. Zero values fall back to defaults.
type HTTPClientConfig struct {
	URL     string
	Timeout time.Duration

	// ConsecutiveFailures opens the breaker; OpenTimeout is how long it stays open.
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// HTTPClient posts fulfillment payloads to the partner endpoint. Calls go
// through a circuit breaker; an open breaker fails the call without a request.
// The client never retries on its own.
type HTTPClient struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logger.Logger
}

func NewHTTPClient(cfg HTTPClientConfig, log *logger.Logger) (*HTTPClient, error) {
	endpoint, err := url.Parse(cfg.URL)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("partner url", err)
	}
	if log == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = defaultConsecutiveFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}

	log = log.WithComponent("partner-http")
	threshold := cfg.ConsecutiveFailures

	return &HTTPClient{
		url:    endpoint.String(),
		client: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "partner",
			Timeout: cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
		logger: log,
	}, nil
}

// Send posts payload with the idempotency key header. Any non-2xx status,
// network failure or open breaker is returned as an error.
func (c *HTTPClient) Send(ctx context.Context, idempotencyKey string, payload []byte) error {
	if idempotencyKey == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.post(ctx, idempotencyKey, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("partner call rejected by circuit breaker", "idempotencyKey", idempotencyKey)
			return fmt.Errorf("partner is unavailable: %w", err)
		}
		c.logger.Error("partner call failed", "idempotencyKey", idempotencyKey, "error", err)
		return err
	}

	c.logger.Info("payload delivered to partner", "idempotencyKey", idempotencyKey)
	return nil
}

// State reports the breaker state for health output.
func (c *HTTPClient) State() string {
	return c.breaker.State().String()
}

func (c *HTTPClient) post(ctx context.Context, idempotencyKey string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, idempotencyKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
