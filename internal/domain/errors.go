package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks an operation against an id that does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnrecognizedEvent marks an upstream event type this system does not
// map. It is not a failure: callers treat it as a successful no-op so the
// pipeline stays forward-compatible with new upstream event types.
var ErrUnrecognizedEvent = errors.New("unrecognized event type")

// ValidationError names the specific field that failed validation so
// clients can branch on cause instead of parsing a generic message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DeliveryError wraps a failed channel attempt. It is recorded in the
// dispatch report and never propagated as a request failure.
type DeliveryError struct {
	Channel  Channel
	Endpoint string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery via %s to %s failed: %v", e.Channel, e.Endpoint, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
