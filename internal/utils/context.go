package utils

import "context"

type contextKey string

const (
	IdentityKey  contextKey = "identity_key"
	UserEmailKey contextKey = "email"
)

// SetUserContext sets the authenticated identity into context (called by middleware).
// The identity key is an opaque handle issued by the external identity
// provider; it is used only to scope carts and ledger entries.
func SetUserContext(ctx context.Context, identityKey, email string) context.Context {
	ctx = context.WithValue(ctx, IdentityKey, identityKey)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	return ctx
}

// GetIdentityFromContext retrieves the identity key safely.
func GetIdentityFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(IdentityKey).(string)
	return key, ok && key != ""
}

// GetUserEmailFromContext retrieves the user email safely.
func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}
