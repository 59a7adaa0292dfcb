package auth

import (
	"context"
	"slices"

	"github.com/gofrs/uuid"
)

type principalKey struct{}

// Principal is the authenticated caller as asserted by the upstream gateway,
// which has already verified the identity-provider token.
type Principal struct {
	ID    uuid.UUID
	Name  string
	Email string
	Roles []string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller attached to the context. The second value
// is false for unauthenticated requests.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// PrincipalRoleCheck is a RoleCheck backed by the context principal.
type PrincipalRoleCheck struct{}

func (PrincipalRoleCheck) HasRole(ctx context.Context, role string) bool {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return false
	}
	return slices.Contains(p.Roles, role)
}

func (c PrincipalRoleCheck) HasAnyRole(ctx context.Context, roles []string) bool {
	for _, role := range roles {
		if c.HasRole(ctx, role) {
			return true
		}
	}
	return false
}
