package user

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// IdentityProvider is the slice of the identity backend the service needs.
type IdentityProvider interface {
	GenerateToken(ctx context.Context, username, password string) (*TokenInfo, error)
	Register(ctx context.Context, input RegisterInput) (uuid.UUID, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	UpdateRoles(ctx context.Context, userID uuid.UUID, roleNames []string) error
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, username, password string) (*TokenInfo, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateInput) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	UpdateRoles(ctx context.Context, userID uuid.UUID, roleNames []string) error
}

type service struct {
	idp IdentityProvider
}

func NewService(idp IdentityProvider) Service {
	return &service{idp: idp}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (uuid.UUID, error) {
	id, err := s.idp.Register(ctx, input)
	if err != nil {
		log.Error().Err(err).Str("username", input.Username).Msg("service: failed to register user")
		return uuid.Nil, err
	}

	log.Info().Stringer("user_id", id).Str("username", input.Username).Msg("service: user registered")
	return id, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*TokenInfo, error) {
	token, err := s.idp.GenerateToken(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateInput) error {
	if err := s.idp.Update(ctx, userID, input); err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to update user profile")
		return fmt.Errorf("service: failed to update user profile: %w", err)
	}
	return nil
}

func (s *service) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if err := s.idp.UpdatePassword(ctx, userID, newPassword); err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to update user password")
		return fmt.Errorf("service: failed to update user password: %w", err)
	}
	return nil
}

func (s *service) UpdateRoles(ctx context.Context, userID uuid.UUID, roleNames []string) error {
	if err := s.idp.UpdateRoles(ctx, userID, roleNames); err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to update user roles")
		return fmt.Errorf("service: failed to update user roles: %w", err)
	}
	return nil
}
