package http

import (
	"errors"
	"net/http"

	"splitship/internal/core/ports"
	"splitship/internal/pkg/errs"
	"splitship/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

const (
	reasonValidation = "validation"
	reasonNotFound   = "not_found"
	reasonConflict   = "conflict"
	reasonBadRequest = "bad_request"
)

// badRequest wraps malformed transport input: unparsable bodies, path
// identifiers or query parameters.
type badRequest struct {
	message string
	cause   error
}

func (e *badRequest) Error() string { return e.message + ": " + e.cause.Error() }
func (e *badRequest) Unwrap() error { return e.cause }

func newBadRequest(message string, cause error) error {
	return &badRequest{message: message, cause: cause}
}

// writeError maps an operation error onto a status code. Validation wins
// over not found, which wins over conflict, so a joined error reports its
// most actionable class. Unknown errors are logged and hidden.
func (s *Server) writeError(c echo.Context, err error) error {
	var (
		status  int
		reason  string
		body    Error
		bad     *badRequest
		invalid *errs.ValidationError
	)

	switch {
	case errors.As(err, &bad):
		status, reason = http.StatusBadRequest, reasonBadRequest
		body = Error{Message: err.Error()}
	case errors.As(err, &invalid):
		status, reason = http.StatusUnprocessableEntity, reasonValidation
		body = Error{Message: errs.ErrValidation.Error(), Errors: invalid.Problems}
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status, reason = http.StatusUnprocessableEntity, reasonValidation
		body = Error{Message: err.Error()}
	case errors.Is(err, errs.ErrObjectNotFound):
		status, reason = http.StatusNotFound, reasonNotFound
		body = Error{Message: err.Error()}
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, ports.ErrConcurrentModification):
		status, reason = http.StatusConflict, reasonConflict
		body = Error{Message: err.Error()}
	default:
		s.logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		body = Error{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
		return c.JSON(http.StatusInternalServerError, body)
	}

	metrics.RejectedOperationsTotal.WithLabelValues(reason).Inc()
	body.Code = status
	return c.JSON(status, body)
}
