package category

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
)

var ErrCategoryNotFound = errors.New("category not found")

// Category is the taxonomy entry stores and products refer to by id. Only
// MANAGER and MASTER callers may mutate the taxonomy.
type Category struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// New builds a category after checking that the caller administers the
// taxonomy.
func New(ctx context.Context, rc auth.RoleCheck, name string) (*Category, error) {
	if err := checkAuthority(ctx, rc); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	return &Category{ID: id, Name: name}, nil
}

// ChangeName renames the category in place.
func (c *Category) ChangeName(ctx context.Context, rc auth.RoleCheck, name string) error {
	if err := checkAuthority(ctx, rc); err != nil {
		return err
	}

	c.Name = name
	return nil
}

// Remove soft-deletes the category. Stores keep their references; reads
// filter deleted entries out.
func (c *Category) Remove(ctx context.Context, rc auth.RoleCheck, now time.Time) error {
	if err := checkAuthority(ctx, rc); err != nil {
		return err
	}

	if c.DeletedAt == nil {
		c.DeletedAt = &now
	}
	return nil
}

func checkAuthority(ctx context.Context, rc auth.RoleCheck) error {
	if !rc.HasAnyRole(ctx, []string{auth.RoleManager, auth.RoleMaster}) {
		return auth.ErrUnauthorized
	}
	return nil
}
