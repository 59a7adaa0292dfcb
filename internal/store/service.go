package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
	"github.com/yonggyo1125/delivery-6h/internal/cache"
	"github.com/yonggyo1125/delivery-6h/internal/geo"
	"github.com/yonggyo1125/delivery-6h/internal/money"
)

// SearchQuery filters store listings. Sigugun districts require Sido and
// are OR-combined; a Sido alone matches the whole province.
type SearchQuery struct {
	Sido        string
	Sigugun     []string
	StoreName   string
	Contact     string
	Keyword     string
	CategoryIDs []uuid.UUID
	Limit       int
	Offset      int
}

// SearchFilter is the visibility rule derived from the caller's roles:
// admins see everything, owners additionally see their own stores in any
// status, everyone else sees OPEN and PREPARING stores only.
type SearchFilter struct {
	Admin   bool
	OwnerID *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, s *Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*Store, error)
	Update(ctx context.Context, s *Store) error
	Search(ctx context.Context, query SearchQuery, filter SearchFilter) ([]Store, error)
}

type OperationInput struct {
	DayOfWeek   time.Weekday
	StartHour   string
	EndHour     string
	BreakStart1 string
	BreakEnd1   string
	BreakStart2 string
	BreakEnd2   string
}

type ProductOptionInput struct {
	Name       string
	Price      int
	SubOptions []SubOption
}

type ProductInput struct {
	ProductCode string
	CategoryID  uuid.UUID
	Name        string
	Price       int
	Options     []ProductOptionInput
}

type CreateStoreInput struct {
	OwnerID     uuid.UUID
	OwnerName   string
	Name        string
	Landline    string
	Email       string
	Address     string
	CategoryIDs []uuid.UUID
	Operations  []OperationInput
}

type Service interface {
	CreateStore(ctx context.Context, input CreateStoreInput) (uuid.UUID, error)
	GetStore(ctx context.Context, id uuid.UUID) (*Store, error)
	SearchStores(ctx context.Context, query SearchQuery) ([]Store, error)
	RemoveStore(ctx context.Context, id uuid.UUID) error
	ChangeStoreStatus(ctx context.Context, id uuid.UUID, status StoreStatus) error
	ChangeStoreInfo(ctx context.Context, id uuid.UUID, params InfoParams) error
	IsOrderable(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)

	AddCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error
	RemoveCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error
	ReplaceCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error
	TruncateCategories(ctx context.Context, id uuid.UUID) error

	CreateOperations(ctx context.Context, id uuid.UUID, ops []OperationInput) error
	ChangeOperation(ctx context.Context, id uuid.UUID, idx int, op OperationInput) error
	RemoveOperations(ctx context.Context, id uuid.UUID, idxes []int) error

	CreateProduct(ctx context.Context, id uuid.UUID, product ProductInput) error
	ChangeProduct(ctx context.Context, id uuid.UUID, productCode string, product ProductInput) error
	RemoveProducts(ctx context.Context, id uuid.UUID, productCodes []string) error
	ChangeProductStatus(ctx context.Context, id uuid.UUID, productCode string, status ProductStatus) error

	CreateProductOptions(ctx context.Context, id uuid.UUID, productCode string, options []ProductOptionInput) error
	RemoveProductOptions(ctx context.Context, id uuid.UUID, productCode string, indexes []int) error
	TruncateProductOptions(ctx context.Context, id uuid.UUID, productCode string) error
	ReplaceProductOptions(ctx context.Context, id uuid.UUID, productCode string, options []ProductOptionInput) error
}

type service struct {
	repo     Repository
	checker  auth.Checker
	geocoder geo.AddressToCoords
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, checker auth.Checker, geocoder geo.AddressToCoords, c cache.Cache, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		checker:  checker,
		geocoder: geocoder,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (s *service) CreateStore(ctx context.Context, input CreateStoreInput) (uuid.UUID, error) {
	operations, err := toOperations(input.Operations)
	if err != nil {
		return uuid.Nil, err
	}

	newStore, err := New(ctx, s.checker, s.geocoder, NewStoreParams{
		OwnerID:     input.OwnerID,
		OwnerName:   input.OwnerName,
		Name:        input.Name,
		Landline:    input.Landline,
		Email:       input.Email,
		Address:     input.Address,
		CategoryIDs: input.CategoryIDs,
		Operations:  operations,
	})
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.repo.Create(ctx, newStore); err != nil {
		log.Error().Err(err).Msg("service: failed to create store in repository")
		return uuid.Nil, fmt.Errorf("service: failed to create store: %w", err)
	}

	log.Info().Stringer("store_id", newStore.ID).Stringer("owner_id", newStore.Owner.ID).Msg("service: store created")
	return newStore.ID, nil
}

func (s *service) GetStore(ctx context.Context, id uuid.UUID) (*Store, error) {
	key := s.cache.GenerateKey("store", id.String())
	if cached, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Msg("service: store cache read failed")
	} else if cached != "" {
		var st Store
		if err := json.Unmarshal([]byte(cached), &st); err == nil {
			return &st, nil
		}
		log.Warn().Stringer("store_id", id).Msg("service: dropping undecodable store cache entry")
	}

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(st); err == nil {
		if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("service: store cache write failed")
		}
	}

	return st, nil
}

func (s *service) SearchStores(ctx context.Context, query SearchQuery) ([]Store, error) {
	filter := SearchFilter{}
	if s.checker.Role.HasAnyRole(ctx, []string{auth.RoleManager, auth.RoleMaster}) {
		filter.Admin = true
	} else if s.checker.Role.HasRole(ctx, auth.RoleOwner) {
		ownerID := s.checker.Owner.OwnerID(ctx)
		filter.OwnerID = &ownerID
	}

	stores, err := s.repo.Search(ctx, query, filter)
	if err != nil {
		log.Error().Err(err).Msg("service: store search failed")
		return nil, fmt.Errorf("service: failed to search stores: %w", err)
	}

	return stores, nil
}

func (s *service) IsOrderable(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	st, err := s.GetStore(ctx, id)
	if err != nil {
		return false, err
	}
	return st.IsOrderable(now), nil
}

func (s *service) RemoveStore(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.Remove(ctx, s.checker)
	})
}

func (s *service) ChangeStoreStatus(ctx context.Context, id uuid.UUID, status StoreStatus) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.ChangeStatus(ctx, s.checker, status)
	})
}

func (s *service) ChangeStoreInfo(ctx context.Context, id uuid.UUID, params InfoParams) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.ChangeInfo(ctx, s.checker, s.geocoder, params)
	})
}

func (s *service) AddCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.CreateCategories(ctx, s.checker, categoryIDs)
	})
}

func (s *service) RemoveCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.RemoveCategories(ctx, s.checker, categoryIDs)
	})
}

func (s *service) ReplaceCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.ReplaceCategories(ctx, s.checker, categoryIDs)
	})
}

func (s *service) TruncateCategories(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.TruncateCategories(ctx, s.checker)
	})
}

func (s *service) CreateOperations(ctx context.Context, id uuid.UUID, ops []OperationInput) error {
	operations, err := toOperations(ops)
	if err != nil {
		return err
	}
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.CreateOperations(ctx, s.checker, operations)
	})
}

func (s *service) ChangeOperation(ctx context.Context, id uuid.UUID, idx int, op OperationInput) error {
	operation, err := toOperation(op)
	if err != nil {
		return err
	}
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.ChangeOperation(ctx, s.checker, idx, operation)
	})
}

func (s *service) RemoveOperations(ctx context.Context, id uuid.UUID, idxes []int) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.RemoveOperations(ctx, s.checker, idxes)
	})
}

func (s *service) CreateProduct(ctx context.Context, id uuid.UUID, product ProductInput) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.CreateProduct(ctx, s.checker, toProductParams(product))
	})
}

func (s *service) ChangeProduct(ctx context.Context, id uuid.UUID, productCode string, product ProductInput) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.ChangeProduct(ctx, s.checker, productCode, toProductParams(product))
	})
}

func (s *service) RemoveProducts(ctx context.Context, id uuid.UUID, productCodes []string) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.RemoveProducts(ctx, s.checker, productCodes)
	})
}

func (s *service) ChangeProductStatus(ctx context.Context, id uuid.UUID, productCode string, status ProductStatus) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		return st.ChangeProductStatus(ctx, s.checker, productCode, status)
	})
}

func (s *service) CreateProductOptions(ctx context.Context, id uuid.UUID, productCode string, options []ProductOptionInput) error {
	return s.mutateProduct(ctx, id, productCode, func(p *Product) {
		p.CreateOptions(toOptions(options))
	})
}

func (s *service) RemoveProductOptions(ctx context.Context, id uuid.UUID, productCode string, indexes []int) error {
	return s.mutateProduct(ctx, id, productCode, func(p *Product) {
		p.RemoveOptions(indexes, time.Now())
	})
}

func (s *service) TruncateProductOptions(ctx context.Context, id uuid.UUID, productCode string) error {
	return s.mutateProduct(ctx, id, productCode, func(p *Product) {
		p.TruncateOptions(time.Now())
	})
}

func (s *service) ReplaceProductOptions(ctx context.Context, id uuid.UUID, productCode string, options []ProductOptionInput) error {
	return s.mutateProduct(ctx, id, productCode, func(p *Product) {
		p.ReplaceOptions(toOptions(options), time.Now())
	})
}

// mutate loads the aggregate, applies one mutation and persists it with the
// optimistic version guard. A stale version surfaces as ErrVersionConflict;
// the caller retries with freshly loaded state.
func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, st *Store) error) error {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := fn(ctx, st); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

// mutateProduct mirrors the original option use-cases: authority is checked
// once on the store load, then the product is mutated directly.
func (s *service) mutateProduct(ctx context.Context, id uuid.UUID, productCode string, fn func(p *Product)) error {
	return s.mutate(ctx, id, func(ctx context.Context, st *Store) error {
		if err := st.checkAuthority(ctx, s.checker); err != nil {
			return err
		}

		p, err := st.Product(productCode)
		if err != nil {
			return err
		}

		fn(p)
		return nil
	})
}

func (s *service) invalidate(ctx context.Context, id uuid.UUID) {
	key := s.cache.GenerateKey("store", id.String())
	if err := s.cache.Del(ctx, key); err != nil {
		log.Warn().Err(err).Stringer("store_id", id).Msg("service: store cache invalidation failed")
	}
}

func toProductParams(input ProductInput) ProductParams {
	return ProductParams{
		ProductCode: input.ProductCode,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Price:       money.Price(input.Price),
		Options:     toOptions(input.Options),
	}
}

func toOptions(inputs []ProductOptionInput) []Option {
	if len(inputs) == 0 {
		return nil
	}
	options := make([]Option, 0, len(inputs))
	for _, in := range inputs {
		options = append(options, Option{
			Name:       in.Name,
			Price:      money.Price(in.Price),
			SubOptions: append([]SubOption(nil), in.SubOptions...),
		})
	}
	return options
}

func toOperations(inputs []OperationInput) ([]Operation, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	ops := make([]Operation, 0, len(inputs))
	for _, in := range inputs {
		op, err := toOperation(in)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// toOperation parses schedule hours. A half-set start/end pair degrades to
// "time unset" rather than failing, matching the evaluator contract.
func toOperation(input OperationInput) (Operation, error) {
	op := Operation{DayOfWeek: input.DayOfWeek}

	if input.StartHour != "" && input.EndHour != "" {
		start, err := ParseTimeOfDay(input.StartHour)
		if err != nil {
			return Operation{}, err
		}
		end, err := ParseTimeOfDay(input.EndHour)
		if err != nil {
			return Operation{}, err
		}
		op.StartHour = &start
		op.EndHour = &end
	}

	breakOne, err := toBreak(input.BreakStart1, input.BreakEnd1)
	if err != nil {
		return Operation{}, err
	}
	breakTwo, err := toBreak(input.BreakStart2, input.BreakEnd2)
	if err != nil {
		return Operation{}, err
	}
	op.BreakHour1 = breakOne
	op.BreakHour2 = breakTwo

	return op, nil
}

func toBreak(startRaw, endRaw string) (*BreakTime, error) {
	if startRaw == "" || endRaw == "" {
		return nil, nil
	}

	start, err := ParseTimeOfDay(startRaw)
	if err != nil {
		return nil, err
	}
	end, err := ParseTimeOfDay(endRaw)
	if err != nil {
		return nil, err
	}

	return &BreakTime{Start: start, End: end}, nil
}
