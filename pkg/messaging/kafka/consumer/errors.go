package consumer

import (
	"errors"
	"fmt"

	"github.com/Sokol111/warehouse-commons/pkg/core/tenant"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/envelope"
)

var (
	// ErrSkipMessage signals that the message must be acknowledged without
	// processing. Gates return it when the event is already applied.
	ErrSkipMessage = errors.New("skip message")

	// ErrPermanent marks an error that no amount of retrying can fix. The
	// message is acknowledged and the failure is logged.
	ErrPermanent = errors.New("permanent error")

	// ErrDegraded marks an outcome where the handler did everything it
	// reasonably could. The message is acknowledged as success and the
	// shortfall is logged as a warning.
	ErrDegraded = errors.New("degraded outcome")
)

// Permanent wraps err so the pipeline acknowledges the message without retries.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Degraded wraps err so the pipeline treats it as success with a warning.
func Degraded(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDegraded, err)
}

// isNonRetryable reports whether a redelivery of the same bytes would fail
// the same way. Malformed envelopes, missing required fields and tenant
// ownership violations never heal on retry. Everything unclassified is
// assumed transient and retried.
func isNonRetryable(err error) bool {
	if errors.Is(err, ErrPermanent) {
		return true
	}
	var decodeErr *envelope.DecodeError
	if errors.As(err, &decodeErr) {
		return true
	}
	var missingErr *envelope.MissingFieldError
	if errors.As(err, &missingErr) {
		return true
	}
	if errors.Is(err, tenant.ErrNoTenant) {
		return true
	}
	return isTenantMismatch(err)
}

func isTenantMismatch(err error) bool {
	var mismatchErr *tenant.MismatchError
	return errors.As(err, &mismatchErr)
}
