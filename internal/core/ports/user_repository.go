package ports

import (
	"context"

	"github.com/minnseong/security-study/internal/core/domain"
)

// UserRepository is the credential store: it owns the persisted account
// records this service authenticates against.
type UserRepository interface {
	// FindByUsername returns the record for username, or domain.ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create inserts a new record; domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
