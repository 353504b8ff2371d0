package domain

import "time"

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User models a stored account record in the credential store.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Nickname     string    `json:"nickname,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authorization-only view of a caller: who they are and what
// roles they hold. It carries no credential material. An Identity comes either
// from a verified token or from a fresh credential check at login.
type Identity struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// HasAnyRole reports whether the identity holds at least one of the given
// roles. Matching is exact-string and case-sensitive.
func (i Identity) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range i.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// IdentityOf builds the authorization view of a stored user.
func IdentityOf(u *User) Identity {
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return Identity{Username: u.Username, Roles: roles}
}
