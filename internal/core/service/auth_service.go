package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minnseong/security-study/internal/core/domain"
	"github.com/minnseong/security-study/internal/core/ports"
	"github.com/minnseong/security-study/internal/core/token"
)

// AuthService implements signup and credential-based login. Tokens it issues
// are stateless; nothing is written to storage during verification.
type AuthService struct {
	repo   ports.UserRepository
	tokens *token.Service
	now    func() time.Time
}

func NewAuthService(repo ports.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Signup creates an account with ROLE_USER and the active flag set. The
// password is bcrypt-hashed before it ever reaches the repository; the
// plaintext is never stored.
func (s *AuthService) Signup(ctx context.Context, username, password, nickname string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     username,
		Nickname:     nickname,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

// Authenticate resolves credentials into an identity. The distinct error
// values (not found, bad password, inactive) are internal classification
// only; the HTTP layer presents one generic rejection for all of them.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	if username == "" || password == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return domain.Identity{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return domain.Identity{}, domain.ErrUserInactive
	}

	return domain.IdentityOf(user), nil
}

// Login authenticates and issues a signed token carrying the identity's
// current roles. Role grants after this point do not alter the token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.Identity, error) {
	identity, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", domain.Identity{}, err
	}

	tok, err := s.tokens.Issue(identity, s.now())
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("issue token: %w", err)
	}

	return tok, identity, nil
}
