package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials means the key pair is absent or malformed.
	// Fatal to the whole checkout; surfaced immediately, never retried.
	ErrMissingCredentials = errors.New("razorpay credentials not configured")

	// ErrInvalidAmount means the requested amount is not a positive integer.
	ErrInvalidAmount = errors.New("order amount must be a positive integer")
)

// RejectedError is a non-success answer from the gateway itself.
type RejectedError struct {
	Status int
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("gateway rejected order (status %d): %s", e.Status, e.Reason)
}

// TransportError is a network or decode failure talking to the gateway.
// The caller may re-initiate a fresh checkout with a fresh amount
// snapshot; the same request is never retried implicitly.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
