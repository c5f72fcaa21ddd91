package auth

import (
	"context"

	"agora/domain"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored in ctx, or Anonymous.
func IdentityFrom(ctx context.Context) domain.Identity {
	if id, ok := ctx.Value(identityKey{}).(domain.Identity); ok {
		return id
	}
	return domain.Anonymous()
}

type Predicate func(domain.Identity) bool

func IsAdmin(id domain.Identity) bool { return id.IsAdmin() }

func IsAuthenticated(id domain.Identity) bool { return id.IsAuthenticated() }

// Guard wraps op so that it only runs when allow accepts the identity found
// in the call's context. A rejected call returns deny and op is never entered.
func Guard[In, Out any](allow Predicate, deny error, op func(context.Context, In) (Out, error)) func(context.Context, In) (Out, error) {
	return func(ctx context.Context, in In) (Out, error) {
		if !allow(IdentityFrom(ctx)) {
			var zero Out
			return zero, deny
		}
		return op(ctx, in)
	}
}

func RequireAdmin[In, Out any](op func(context.Context, In) (Out, error)) func(context.Context, In) (Out, error) {
	return Guard(IsAdmin, domain.ErrForbidden, op)
}

func RequireAuthenticated[In, Out any](op func(context.Context, In) (Out, error)) func(context.Context, In) (Out, error) {
	return Guard(IsAuthenticated, domain.ErrUnauthenticated, op)
}
