package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cannot check out an empty cart")
	ErrNoActiveCheckout   = errors.New("no checkout awaiting completion")
	ErrAssertionConsumed  = errors.New("completion assertion already consumed")
	ErrVerificationFailed = errors.New("payment verification failed")
)
