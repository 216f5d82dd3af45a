package passage

import (
	"context"
	"net/http"
)

// DefaultProperty is the context property authenticated identities are
// attached under when Config.AssignProperty is not set.
const DefaultProperty = "user"

type identityCtxKey struct{ property string }

type authInfoCtxKey struct{}

func withIdentity(ctx context.Context, property string, identity any) context.Context {
	return context.WithValue(ctx, identityCtxKey{property}, identity)
}

func withAuthInfo(ctx context.Context, info any) context.Context {
	return context.WithValue(ctx, authInfoCtxKey{}, info)
}

// PropertyFromContext returns the identity attached under the given
// property name, or nil.
func PropertyFromContext(ctx context.Context, property string) any {
	return ctx.Value(identityCtxKey{property})
}

// FromContext returns the identity attached under DefaultProperty, or
// nil when the request is unauthenticated.
//
// Make sure the Authenticate middleware ran before calling it.
func FromContext(ctx context.Context) any {
	return PropertyFromContext(ctx, DefaultProperty)
}

// FromRequest returns the identity attached under DefaultProperty, or
// nil when the request is unauthenticated.
func FromRequest(r *http.Request) any {
	return FromContext(r.Context())
}

// IsAuthenticated reports whether an identity is attached under
// DefaultProperty.
func IsAuthenticated(ctx context.Context) bool {
	return FromContext(ctx) != nil
}

// AuthInfoFromContext returns the transformed strategy info attached
// on successful authentication, or nil.
func AuthInfoFromContext(ctx context.Context) any {
	return ctx.Value(authInfoCtxKey{})
}

// AuthInfoFromRequest returns the transformed strategy info attached
// on successful authentication, or nil.
func AuthInfoFromRequest(r *http.Request) any {
	return AuthInfoFromContext(r.Context())
}
