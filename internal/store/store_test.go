package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
	"github.com/yonggyo1125/delivery-6h/internal/geo"
	"github.com/yonggyo1125/delivery-6h/internal/store"
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

type stubOwnerCheck struct {
	owns bool
	err  error
}

func (s stubOwnerCheck) IsOwner(ctx context.Context, storeID uuid.UUID) (bool, error) {
	return s.owns, s.err
}

func (s stubOwnerCheck) OwnerID(ctx context.Context) uuid.UUID {
	return uuid.Nil
}

type stubGeocoder struct {
	coords geo.Coords
	err    error
}

func (s stubGeocoder) Convert(address string) (geo.Coords, error) {
	return s.coords, s.err
}

func ownerChecker() auth.Checker {
	return auth.Checker{
		Role:  stubRoleCheck{roles: map[string]bool{auth.RoleOwner: true}},
		Owner: stubOwnerCheck{owns: true},
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	ownerID, _ := uuid.NewV4()
	s, err := store.New(context.Background(), ownerChecker(), stubGeocoder{coords: geo.Coords{Latitude: 37.5, Longitude: 127.0}}, store.NewStoreParams{
		OwnerID:   ownerID,
		OwnerName: "kim",
		Name:      "Chicken Place",
		Address:   "Seoul Gangnam-gu Yeoksam-dong 123",
	})
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	categoryID, _ := uuid.NewV4()

	tests := []struct {
		name      string
		checker   auth.Checker
		geocoder  stubGeocoder
		address   string
		wantErr   bool
		wantErrIs error
	}{
		{
			name:     "owner_creates_store",
			checker:  ownerChecker(),
			geocoder: stubGeocoder{coords: geo.Coords{Latitude: 37.5, Longitude: 127.0}},
			address:  "Seoul Gangnam-gu 1",
		},
		{
			name: "manager_creates_store_without_owner_role",
			checker: auth.Checker{
				Role:  stubRoleCheck{roles: map[string]bool{auth.RoleManager: true}},
				Owner: stubOwnerCheck{},
			},
			geocoder: stubGeocoder{coords: geo.Coords{Latitude: 37.5, Longitude: 127.0}},
			address:  "Seoul Gangnam-gu 1",
		},
		{
			name: "plain_user_is_rejected",
			checker: auth.Checker{
				Role:  stubRoleCheck{roles: map[string]bool{auth.RoleUser: true}},
				Owner: stubOwnerCheck{},
			},
			geocoder:  stubGeocoder{},
			address:   "Seoul Gangnam-gu 1",
			wantErr:   true,
			wantErrIs: auth.ErrUnauthorized,
		},
		{
			name:      "empty_address_is_invalid",
			checker:   ownerChecker(),
			geocoder:  stubGeocoder{},
			address:   "",
			wantErr:   true,
			wantErrIs: geo.ErrInvalidAddress,
		},
		{
			name:      "geocoder_failure_propagates",
			checker:   ownerChecker(),
			geocoder:  stubGeocoder{err: geo.ErrInvalidAddress},
			address:   "No Such Place",
			wantErr:   true,
			wantErrIs: geo.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ownerID, _ := uuid.NewV4()
			s, err := store.New(context.Background(), tt.checker, tt.geocoder, store.NewStoreParams{
				OwnerID:     ownerID,
				OwnerName:   "kim",
				Name:        "Chicken Place",
				Address:     tt.address,
				CategoryIDs: []uuid.UUID{categoryID, categoryID},
			})

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantErrIs != nil {
					assert.True(t, errors.Is(err, tt.wantErrIs))
				}
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, s.ID)
			assert.Equal(t, store.StatusPreparing, s.Status)
			assert.Equal(t, []uuid.UUID{categoryID}, s.ActiveCategoryIDs(), "duplicate ids in the add-set collapse to one")
		})
	}
}

func TestStore_MutationAuthorization(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	strangerChecker := auth.Checker{
		Role:  stubRoleCheck{roles: map[string]bool{auth.RoleOwner: true}},
		Owner: stubOwnerCheck{owns: false},
	}

	assert.ErrorIs(t, s.ChangeStatus(ctx, strangerChecker, store.StatusOpen), auth.ErrUnauthorized)
	assert.ErrorIs(t, s.Remove(ctx, strangerChecker), auth.ErrUnauthorized)
	assert.ErrorIs(t, s.CreateCategories(ctx, strangerChecker, nil), auth.ErrUnauthorized)
	assert.ErrorIs(t, s.CreateProduct(ctx, strangerChecker, store.ProductParams{ProductCode: "P1"}), auth.ErrUnauthorized)
	assert.Equal(t, store.StatusPreparing, s.Status)
	assert.Nil(t, s.DeletedAt)

	adminChecker := auth.Checker{
		Role:  stubRoleCheck{roles: map[string]bool{auth.RoleMaster: true}},
		Owner: stubOwnerCheck{owns: false},
	}
	assert.NoError(t, s.ChangeStatus(ctx, adminChecker, store.StatusOpen))
	assert.Equal(t, store.StatusOpen, s.Status)
}

func TestStore_Categories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	checker := ownerChecker()

	first, _ := uuid.NewV4()
	second, _ := uuid.NewV4()
	third, _ := uuid.NewV4()

	require.NoError(t, s.CreateCategories(ctx, checker, []uuid.UUID{first, second}))
	assert.Equal(t, []uuid.UUID{first, second}, s.ActiveCategoryIDs())

	require.NoError(t, s.RemoveCategories(ctx, checker, []uuid.UUID{first}))
	assert.Equal(t, []uuid.UUID{second}, s.ActiveCategoryIDs())
	assert.Len(t, s.Categories, 2, "removal is a soft delete, the entry stays")

	require.NoError(t, s.ReplaceCategories(ctx, checker, []uuid.UUID{third}))
	assert.Equal(t, []uuid.UUID{third}, s.ActiveCategoryIDs())

	require.NoError(t, s.TruncateCategories(ctx, checker))
	assert.Empty(t, s.ActiveCategoryIDs())
}

func TestStore_Operations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	checker := ownerChecker()

	monday := store.Operation{DayOfWeek: 1, StartHour: timeOfDay(t, "09:00"), EndHour: timeOfDay(t, "18:00")}
	tuesday := store.Operation{DayOfWeek: 2, StartHour: timeOfDay(t, "10:00"), EndHour: timeOfDay(t, "20:00")}

	require.NoError(t, s.CreateOperations(ctx, checker, []store.Operation{monday, tuesday}))
	require.Len(t, s.Operations, 2)

	changed := store.Operation{DayOfWeek: 1, StartHour: timeOfDay(t, "11:00"), EndHour: timeOfDay(t, "15:00")}
	require.NoError(t, s.ChangeOperation(ctx, checker, 0, changed))
	assert.Equal(t, changed, s.Operations[0])

	// out-of-range index must not fail and must not change anything
	require.NoError(t, s.ChangeOperation(ctx, checker, 5, monday))
	assert.Equal(t, changed, s.Operations[0])
	assert.Equal(t, tuesday, s.Operations[1])

	require.NoError(t, s.RemoveOperations(ctx, checker, []int{0}))
	require.Len(t, s.Operations, 1)
	assert.Equal(t, tuesday, s.Operations[0])
}

func TestStore_Products(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	checker := ownerChecker()
	categoryID, _ := uuid.NewV4()

	require.NoError(t, s.CreateProduct(ctx, checker, store.ProductParams{
		ProductCode: "FRIED-1",
		CategoryID:  categoryID,
		Name:        "Fried Chicken",
		Price:       18000,
	}))

	err := s.CreateProduct(ctx, checker, store.ProductParams{ProductCode: "FRIED-1", Name: "Another"})
	assert.ErrorIs(t, err, store.ErrProductDuplicated)

	p, err := s.Product("FRIED-1")
	require.NoError(t, err)
	assert.Equal(t, store.ProductReady, p.Status, "new products start READY")

	err = s.ChangeProduct(ctx, checker, "MISSING", store.ProductParams{ProductCode: "MISSING"})
	assert.ErrorIs(t, err, store.ErrProductNotFound)

	require.NoError(t, s.ChangeProduct(ctx, checker, "FRIED-1", store.ProductParams{
		ProductCode: "FRIED-1",
		CategoryID:  categoryID,
		Name:        "Fried Chicken Half",
		Price:       10000,
	}))
	p, err = s.Product("FRIED-1")
	require.NoError(t, err)
	assert.Equal(t, "Fried Chicken Half", p.Name)
	assert.Equal(t, store.ProductReady, p.Status, "descriptive change keeps the status")

	require.NoError(t, s.ChangeProductStatus(ctx, checker, "FRIED-1", store.ProductSale))
	p, _ = s.Product("FRIED-1")
	assert.Equal(t, store.ProductSale, p.Status)

	require.NoError(t, s.RemoveProducts(ctx, checker, []string{"FRIED-1"}))
	_, err = s.Product("FRIED-1")
	assert.ErrorIs(t, err, store.ErrProductNotFound, "soft-deleted products are invisible to lookup")

	// the code is free again after the soft delete
	require.NoError(t, s.CreateProduct(ctx, checker, store.ProductParams{ProductCode: "FRIED-1", Name: "Relisted"}))
}
