package category_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
	"github.com/yonggyo1125/delivery-6h/internal/category"
)

type stubRoleCheck struct {
	roles map[string]bool
}

func (s stubRoleCheck) HasRole(ctx context.Context, role string) bool {
	return s.roles[role]
}

func (s stubRoleCheck) HasAnyRole(ctx context.Context, roles []string) bool {
	for _, role := range roles {
		if s.roles[role] {
			return true
		}
	}
	return false
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		roles   map[string]bool
		wantErr bool
	}{
		{name: "manager_creates", roles: map[string]bool{auth.RoleManager: true}},
		{name: "master_creates", roles: map[string]bool{auth.RoleMaster: true}},
		{name: "owner_rejected", roles: map[string]bool{auth.RoleOwner: true}, wantErr: true},
		{name: "user_rejected", roles: map[string]bool{auth.RoleUser: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := category.New(context.Background(), stubRoleCheck{roles: tt.roles}, "Chicken")

			if tt.wantErr {
				assert.ErrorIs(t, err, auth.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, c.ID)
			assert.Equal(t, "Chicken", c.Name)
		})
	}
}

func TestCategory_ChangeName(t *testing.T) {
	admin := stubRoleCheck{roles: map[string]bool{auth.RoleManager: true}}
	c, err := category.New(context.Background(), admin, "Chicken")
	require.NoError(t, err)

	err = c.ChangeName(context.Background(), stubRoleCheck{roles: map[string]bool{auth.RoleOwner: true}}, "Pizza")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	assert.Equal(t, "Chicken", c.Name)

	require.NoError(t, c.ChangeName(context.Background(), admin, "Pizza"))
	assert.Equal(t, "Pizza", c.Name)
}

func TestCategory_Remove(t *testing.T) {
	admin := stubRoleCheck{roles: map[string]bool{auth.RoleMaster: true}}
	c, err := category.New(context.Background(), admin, "Chicken")
	require.NoError(t, err)

	first := time.Now()
	require.NoError(t, c.Remove(context.Background(), admin, first))
	require.NotNil(t, c.DeletedAt)
	assert.Equal(t, first, *c.DeletedAt)

	// removing again keeps the original deletion time
	require.NoError(t, c.Remove(context.Background(), admin, first.Add(time.Hour)))
	assert.Equal(t, first, *c.DeletedAt)
}
