package payment

import "errors"

var (
	// ErrSecretNotConfigured means the shared signing key is absent.
	// Distinct from a Rejected verification on purpose.
	ErrSecretNotConfigured = errors.New("razorpay key secret not configured")
)
