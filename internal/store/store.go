package store

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
	"github.com/yonggyo1125/delivery-6h/internal/geo"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

// NewStoreParams carries everything needed to open a store. ID is assigned
// when the caller does not supply one.
type NewStoreParams struct {
	ID          *uuid.UUID
	OwnerID     uuid.UUID
	OwnerName   string
	Name        string
	Landline    string
	Email       string
	Address     string
	CategoryIDs []uuid.UUID
	Operations  []Operation
}

// ProductParams is the input for creating or replacing a product.
type ProductParams struct {
	ProductCode string
	CategoryID  uuid.UUID
	Name        string
	Price       money.Price
	Options     []Option
}

// InfoParams updates the store's general information. An empty Address keeps
// the current location.
type InfoParams struct {
	OwnerName string
	Name      string
	Landline  string
	Email     string
	Address   string
}

// New validates authority for a first-time registration (OWNER role unless
// the caller is an admin), resolves the address to coordinates and builds
// the aggregate in PREPARING status.
func New(ctx context.Context, ac auth.Checker, geocoder geo.AddressToCoords, params NewStoreParams) (*Store, error) {
	if err := ac.CheckAuthority(ctx, nil); err != nil {
		return nil, err
	}

	location, err := resolveLocation(geocoder, params.Address)
	if err != nil {
		return nil, err
	}

	id := uuid.Nil
	if params.ID != nil {
		id = *params.ID
	}
	if id == uuid.Nil {
		generated, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		id = generated
	}

	s := &Store{
		ID:     id,
		Status: StatusPreparing,
		Owner:  Owner{ID: params.OwnerID, Name: params.OwnerName},
		Name:   params.Name,
		Contact: Contact{
			Landline: params.Landline,
			Email:    params.Email,
		},
		Location:   location,
		Operations: append([]Operation(nil), params.Operations...),
	}

	// Authority was just established for the creation; category attachment
	// reuses it without a second gate pass.
	s.addCategories(params.CategoryIDs)

	return s, nil
}

func resolveLocation(geocoder geo.AddressToCoords, address string) (Location, error) {
	if address == "" {
		return Location{}, geo.ErrInvalidAddress
	}

	coords, err := geocoder.Convert(address)
	if err != nil {
		return Location{}, err
	}

	return Location{Address: address, Latitude: coords.Latitude, Longitude: coords.Longitude}, nil
}

func (s *Store) checkAuthority(ctx context.Context, ac auth.Checker) error {
	id := s.ID
	return ac.CheckAuthority(ctx, &id)
}

// Remove soft-deletes the whole store.
func (s *Store) Remove(ctx context.Context, ac auth.Checker) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	now := time.Now()
	s.DeletedAt = &now
	return nil
}

// ChangeStatus switches the operating status (PREPARING/OPEN/CLOSED/DEFUNCT).
func (s *Store) ChangeStatus(ctx context.Context, ac auth.Checker, status StoreStatus) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	s.Status = status
	return nil
}

// ChangeInfo updates general store information, re-resolving coordinates
// when the address changes.
func (s *Store) ChangeInfo(ctx context.Context, ac auth.Checker, geocoder geo.AddressToCoords, params InfoParams) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	if params.OwnerName != "" {
		s.Owner.Name = params.OwnerName
	}
	if params.Name != "" {
		s.Name = params.Name
	}
	if params.Landline != "" {
		s.Contact.Landline = params.Landline
	}
	if params.Email != "" {
		s.Contact.Email = params.Email
	}
	if params.Address != "" && params.Address != s.Location.Address {
		location, err := resolveLocation(geocoder, params.Address)
		if err != nil {
			return err
		}
		s.Location = location
	}

	return nil
}

// CreateCategories attaches categories, deduplicating within the added set.
func (s *Store) CreateCategories(ctx context.Context, ac auth.Checker, categoryIDs []uuid.UUID) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	s.addCategories(categoryIDs)
	return nil
}

func (s *Store) addCategories(categoryIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		s.Categories = append(s.Categories, CategoryRef{CategoryID: id})
	}
}

// RemoveCategories soft-deletes the matching, not-yet-deleted entries.
func (s *Store) RemoveCategories(ctx context.Context, ac auth.Checker, categoryIDs []uuid.UUID) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	targets := make(map[uuid.UUID]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		targets[id] = struct{}{}
	}

	now := time.Now()
	for i := range s.Categories {
		ref := &s.Categories[i]
		if ref.DeletedAt != nil {
			continue
		}
		if _, match := targets[ref.CategoryID]; match {
			ref.DeletedAt = &now
		}
	}

	return nil
}

// TruncateCategories soft-deletes every remaining category link.
func (s *Store) TruncateCategories(ctx context.Context, ac auth.Checker) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	now := time.Now()
	for i := range s.Categories {
		if s.Categories[i].DeletedAt == nil {
			s.Categories[i].DeletedAt = &now
		}
	}

	return nil
}

// ReplaceCategories is truncate followed by create.
func (s *Store) ReplaceCategories(ctx context.Context, ac auth.Checker, categoryIDs []uuid.UUID) error {
	if err := s.TruncateCategories(ctx, ac); err != nil {
		return err
	}
	return s.CreateCategories(ctx, ac, categoryIDs)
}

// ActiveCategoryIDs returns the category links that are not soft-deleted.
func (s *Store) ActiveCategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Categories))
	for _, ref := range s.Categories {
		if ref.DeletedAt == nil {
			ids = append(ids, ref.CategoryID)
		}
	}
	return ids
}

// CreateOperation appends one weekly schedule entry.
func (s *Store) CreateOperation(ctx context.Context, ac auth.Checker, op Operation) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	s.Operations = append(s.Operations, op)
	return nil
}

func (s *Store) CreateOperations(ctx context.Context, ac auth.Checker, ops []Operation) error {
	for _, op := range ops {
		if err := s.CreateOperation(ctx, ac, op); err != nil {
			return err
		}
	}
	return nil
}

// ChangeOperation replaces the entry at idx. An out-of-range index is a
// silent no-op.
func (s *Store) ChangeOperation(ctx context.Context, ac auth.Checker, idx int, op Operation) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	if idx < 0 || idx >= len(s.Operations) {
		return nil
	}

	s.Operations[idx] = op
	return nil
}

// RemoveOperations drops the entries at the given positions.
func (s *Store) RemoveOperations(ctx context.Context, ac auth.Checker, idxes []int) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	if len(s.Operations) == 0 || len(idxes) == 0 {
		return nil
	}

	drop := make(map[int]struct{}, len(idxes))
	for _, idx := range idxes {
		drop[idx] = struct{}{}
	}

	remaining := make([]Operation, 0, len(s.Operations))
	for i, op := range s.Operations {
		if _, removed := drop[i]; !removed {
			remaining = append(remaining, op)
		}
	}
	s.Operations = remaining

	return nil
}

// CreateProduct registers a new menu entry in READY status. The product code
// must be unique among the store's live products.
func (s *Store) CreateProduct(ctx context.Context, ac auth.Checker, params ProductParams) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	if s.findProduct(params.ProductCode) != nil {
		return ErrProductDuplicated
	}

	s.Products = append(s.Products, newProduct(params.CategoryID, params.ProductCode, params.Name, params.Price, params.Options))
	return nil
}

// ChangeProduct replaces the product's descriptive fields. Its status,
// version and soft-delete markers are preserved.
func (s *Store) ChangeProduct(ctx context.Context, ac auth.Checker, productCode string, params ProductParams) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	p := s.findProduct(productCode)
	if p == nil {
		return ErrProductNotFound
	}

	p.ProductCode = params.ProductCode
	p.Category = params.CategoryID
	p.Name = params.Name
	p.Price = params.Price
	p.Options = append([]Option(nil), params.Options...)

	return nil
}

// RemoveProducts soft-deletes the live products matching the given codes.
func (s *Store) RemoveProducts(ctx context.Context, ac auth.Checker, productCodes []string) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	if len(productCodes) == 0 {
		return nil
	}

	codes := make(map[string]struct{}, len(productCodes))
	for _, code := range productCodes {
		codes[code] = struct{}{}
	}

	now := time.Now()
	for i := range s.Products {
		p := &s.Products[i]
		if p.DeletedAt != nil {
			continue
		}
		if _, match := codes[p.ProductCode]; match {
			p.Remove(now)
		}
	}

	return nil
}

// ChangeProductStatus moves a product between READY, SALE and STOCK_OUT.
func (s *Store) ChangeProductStatus(ctx context.Context, ac auth.Checker, productCode string, status ProductStatus) error {
	if err := s.checkAuthority(ctx, ac); err != nil {
		return err
	}

	p := s.findProduct(productCode)
	if p == nil {
		return ErrProductNotFound
	}

	p.changeStatus(status)
	return nil
}

// Product returns the live product with the given code.
func (s *Store) Product(productCode string) (*Product, error) {
	p := s.findProduct(productCode)
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *Store) findProduct(productCode string) *Product {
	for i := range s.Products {
		p := &s.Products[i]
		if p.DeletedAt == nil && p.ProductCode == productCode {
			return p
		}
	}
	return nil
}
