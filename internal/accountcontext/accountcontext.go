package accountcontext

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// AccountContextKey is the request context key for the authenticated account.
type AccountContextKey struct{}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	AccountID uuid.UUID
	Email     string
}

// WithIdentity stores the caller identity in the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, AccountContextKey{}, identity)
}

// WithAccountID stores only the account id in the context.
func WithAccountID(ctx context.Context, accountID uuid.UUID) context.Context {
	return WithIdentity(ctx, Identity{AccountID: accountID})
}

// IdentityFromContext returns the caller identity, if set.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(AccountContextKey{}).(Identity)
	if !ok || identity.AccountID == uuid.Nil {
		return Identity{}, false
	}
	identity.Email = strings.TrimSpace(identity.Email)
	return identity, true
}

// AccountIDFromContext returns the account id from context, if set.
func AccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return identity.AccountID, true
}
