package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
)

// OwnerCheck answers ownership questions from the request principal and the
// store's persisted owner. It implements auth.OwnerCheck.
type OwnerCheck struct {
	repo Repository
}

func NewOwnerCheck(repo Repository) *OwnerCheck {
	return &OwnerCheck{repo: repo}
}

func (c *OwnerCheck) IsOwner(ctx context.Context, storeID uuid.UUID) (bool, error) {
	p, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return false, nil
	}

	s, err := c.repo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("owner check for store %s: %w", storeID, err)
	}

	return s.Owner.ID == p.ID, nil
}

func (c *OwnerCheck) OwnerID(ctx context.Context) uuid.UUID {
	p, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return uuid.Nil
	}
	return p.ID
}
