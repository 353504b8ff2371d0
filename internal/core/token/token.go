// Package token issues and verifies the signed bearer tokens this service
// authenticates with. Tokens are compact three-segment JWTs signed with
// HMAC-SHA512 over a process-wide key; they are fully stateless, so validity
// is decided by signature and expiry alone, never by a lookup.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/minnseong/security-study/internal/core/domain"
)

// authClaimSeparator joins the role list into the single "auth" claim.
const authClaimSeparator = ","

// accessClaims is the wire shape of the token payload: registered sub/iat/exp
// plus a comma-joined role list.
type accessClaims struct {
	jwt.RegisteredClaims
	Auth string `json:"auth"`
}

// Service signs and verifies access tokens. The signing key is read-only
// after construction and safe for concurrent use.
type Service struct {
	signingKey []byte
	ttl        time.Duration
}

// NewService builds a token Service. The key must be non-empty; ttl falls
// back to one hour when not positive.
func NewService(signingKey []byte, ttl time.Duration) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("token: signing key must not be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{signingKey: signingKey, ttl: ttl}, nil
}

// TTL returns the configured validity window for issued tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the identity. The embedded roles are a
// snapshot at issuance time: later role changes do not affect this token.
func (s *Service) Issue(id domain.Identity, now time.Time) (string, error) {
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Auth: strings.Join(id.Roles, authClaimSeparator),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return t.SignedString(s.signingKey)
}

// Verify parses and validates a token string against the signing key and the
// supplied clock, returning the identity it proves. Failures are classified:
//
//	ErrTokenMissing          – empty token string
//	ErrTokenMalformed        – not a parseable token, or required claims absent
//	ErrTokenSignatureInvalid – signature does not match header+payload
//	ErrTokenExpired          – now is at or past the expiry instant
//
// The signature is checked before any decoded field is trusted; roles from a
// mis-signed payload are never returned.
func (s *Service) Verify(tokenString string, now time.Time) (domain.Identity, error) {
	if tokenString == "" {
		return domain.Identity{}, domain.ErrTokenMissing
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		// Strict base64: a token differing only in unused trailing bits of a
		// segment must not decode to the same bytes as the original.
		jwt.WithStrictDecoding(),
	)

	claims := &accessClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	})
	if err != nil {
		return domain.Identity{}, classify(err)
	}

	// The library accepts a token at the exact expiry instant; the contract
	// here is strict (no grace window at all).
	if !now.Before(claims.ExpiresAt.Time) {
		return domain.Identity{}, domain.ErrTokenExpired
	}

	if claims.Subject == "" {
		return domain.Identity{}, domain.ErrTokenMalformed
	}
	roles := splitRoles(claims.Auth)
	if len(roles) == 0 {
		return domain.Identity{}, domain.ErrTokenMalformed
	}

	return domain.Identity{
		Username: claims.Subject,
		Roles:    roles,
	}, nil
}

// splitRoles decodes the auth claim, dropping empty entries so that stray
// separators ("ROLE_USER,", ",") never yield an empty-string role.
func splitRoles(auth string) []string {
	var roles []string
	for _, r := range strings.Split(auth, authClaimSeparator) {
		if r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrTokenSignatureInvalid
	default:
		return domain.ErrTokenMalformed
	}
}
