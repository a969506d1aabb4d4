package order

import "errors"

var (
	ErrMissingIdentity = errors.New("identity key is required")
	ErrEmptyOrder      = errors.New("order has no items")
)
