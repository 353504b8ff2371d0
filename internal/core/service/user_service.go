package service

import (
	"context"

	"github.com/minnseong/security-study/internal/core/domain"
	"github.com/minnseong/security-study/internal/core/ports"
)

// UserService answers profile queries for stored accounts.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// GetUserWithRoles returns the stored profile for username, roles included.
func (s *UserService) GetUserWithRoles(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// GetMyUser returns the profile of the caller whose identity the auth
// middleware bound to ctx. The token only proves who the caller is; the
// profile itself always comes from the store.
func (s *UserService) GetMyUser(ctx context.Context) (*domain.User, error) {
	identity, ok := domain.IdentityFromContext(ctx)
	if !ok {
		return nil, domain.ErrNoIdentity
	}
	return s.repo.FindByUsername(ctx, identity.Username)
}
