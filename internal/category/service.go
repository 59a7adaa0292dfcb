package category

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yonggyo1125/delivery-6h/internal/auth"
)

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	Update(ctx context.Context, c *Category) error
	List(ctx context.Context) ([]Category, error)
}

type Service interface {
	CreateCategory(ctx context.Context, name string) (uuid.UUID, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	RenameCategory(ctx context.Context, id uuid.UUID, name string) error
	RemoveCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      Repository
	roleCheck auth.RoleCheck
	now       func() time.Time
}

func NewService(repo Repository, roleCheck auth.RoleCheck) Service {
	return &service{repo: repo, roleCheck: roleCheck, now: time.Now}
}

func (s *service) CreateCategory(ctx context.Context, name string) (uuid.UUID, error) {
	c, err := New(ctx, s.roleCheck, name)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		log.Error().Err(err).Msg("service: failed to create category in repository")
		return uuid.Nil, fmt.Errorf("service: failed to create category: %w", err)
	}

	log.Info().Stringer("category_id", c.ID).Str("name", c.Name).Msg("service: category created")
	return c.ID, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list categories")
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *service) RenameCategory(ctx context.Context, id uuid.UUID, name string) error {
	return s.mutate(ctx, id, func(c *Category) error {
		return c.ChangeName(ctx, s.roleCheck, name)
	})
}

func (s *service) RemoveCategory(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, id, func(c *Category) error {
		return c.Remove(ctx, s.roleCheck, s.now())
	})
}

func (s *service) mutate(ctx context.Context, id uuid.UUID, fn func(c *Category) error) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := fn(c); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		log.Error().Err(err).Stringer("category_id", id).Msg("service: failed to update category")
		return fmt.Errorf("service: failed to update category: %w", err)
	}

	return nil
}
