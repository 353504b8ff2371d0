package ports

import (
	"context"
	"time"

	"github.com/minnseong/security-study/internal/core/domain"
)

type AuthService interface {
	// Signup creates an account with ROLE_USER; domain.ErrUserExists on duplicates.
	Signup(ctx context.Context, username, password, nickname string) (*domain.User, error)
	// Authenticate checks credentials against the store and returns the
	// caller's identity, or one of domain.ErrUserNotFound,
	// domain.ErrInvalidCredentials, domain.ErrUserInactive.
	Authenticate(ctx context.Context, username, password string) (domain.Identity, error)
	// Login authenticates and issues a signed access token for the identity.
	Login(ctx context.Context, username, password string) (string, domain.Identity, error)
}

type UserService interface {
	// GetUserWithRoles returns the stored profile for username.
	GetUserWithRoles(ctx context.Context, username string) (*domain.User, error)
	// GetMyUser returns the profile of the identity bound to ctx.
	GetMyUser(ctx context.Context) (*domain.User, error)
}

// TokenVerifier validates a bearer token string against the given clock.
type TokenVerifier interface {
	Verify(tokenString string, now time.Time) (domain.Identity, error)
}
