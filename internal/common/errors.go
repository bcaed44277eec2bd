// Package common defines shared constants and sentinel errors used across
// the PlaceHub auth service. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Access token errors (invalid signature or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Refresh token lifecycle. ErrRefreshTokenExpired is for internal
	// logging only; callers surface ErrInvalidToken so that missing,
	// revoked and expired tokens are indistinguishable externally.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Login throttling.
	ErrRateLimited = errors.New("too many requests")

	// Authentication orchestration errors.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
