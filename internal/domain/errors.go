package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a request that violates a domain invariant.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials signals a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized signals a missing, malformed or revoked session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired signals a session past its expiry.
	ErrSessionExpired = errors.New("session expired")
	// ErrForbidden signals an authenticated caller without the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)
