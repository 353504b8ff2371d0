package domain

import "errors"

// Account and credential errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
)

// Token verification errors. The HTTP layer collapses all of these into one
// generic 401 so callers cannot distinguish a forged token from an expired one.
var (
	ErrTokenMissing          = errors.New("token missing")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// ErrNoIdentity is returned when an operation needs the current caller but no
// identity was installed for the request.
var ErrNoIdentity = errors.New("no authenticated identity")
