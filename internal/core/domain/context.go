package domain

import "context"

type ctxKey struct{}

// WithIdentity binds a verified identity to the request's context. The binding
// lives and dies with the request; it is never shared across requests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext extracts the identity installed by the auth middleware.
// The second return value is false when the request carried no valid token.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
