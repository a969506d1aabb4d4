package gateway

import "context"

// Gateway opens transactions with the external payment provider.
type Gateway interface {
	// CreateOrder opens a gateway transaction for the given amount in
	// whole currency units. It is a pure handshake: no local state is
	// touched, and the caller owns retry decisions.
	CreateOrder(ctx context.Context, amount int64) (*Order, error)

	// KeyID returns the public gateway identifier handed to the
	// client-side collection step.
	KeyID() string
}
