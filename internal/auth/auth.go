package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
)

const (
	RoleUser    = "USER"
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleMaster  = "MASTER"
)

var ErrUnauthorized = errors.New("caller is not authorized for this operation")

// RoleCheck answers whether the current caller holds a role.
type RoleCheck interface {
	HasRole(ctx context.Context, role string) bool
	HasAnyRole(ctx context.Context, roles []string) bool
}

// OwnerCheck answers whether the current caller owns a given store.
type OwnerCheck interface {
	IsOwner(ctx context.Context, storeID uuid.UUID) (bool, error)
	OwnerID(ctx context.Context) uuid.UUID
}

// Checker is the authorization gate shared by every mutating store, product
// and category operation. It is re-evaluated on each call: caller identity
// may differ per request within one process.
type Checker struct {
	Role  RoleCheck
	Owner OwnerCheck
}

// CheckAuthority enforces the owner-vs-admin protocol:
//   - MANAGER and MASTER pass unconditionally;
//   - a nil storeID means first-time creation, which requires the OWNER role;
//   - otherwise the caller must be the verified owner of the store.
func (c Checker) CheckAuthority(ctx context.Context, storeID *uuid.UUID) error {
	if c.Role.HasAnyRole(ctx, []string{RoleManager, RoleMaster}) {
		return nil
	}

	if storeID == nil {
		if !c.Role.HasRole(ctx, RoleOwner) {
			return ErrUnauthorized
		}
		return nil
	}

	owns, err := c.Owner.IsOwner(ctx, *storeID)
	if err != nil {
		return fmt.Errorf("auth: owner lookup for store %s: %w", storeID, err)
	}
	if !owns {
		return ErrUnauthorized
	}

	return nil
}
