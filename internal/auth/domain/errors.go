package domain

import (
	"github.com/secureai/gateway/internal/errors"
)

// Authentication errors.
var (
	// ErrUserNotFound indicates a user with the specified username was not found.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserExists indicates the username is already taken.
	ErrUserExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates the presented username/password or token is
	// invalid. Returned for non-existent subjects too, to prevent enumeration.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrUserInactive indicates the user exists but cannot authenticate.
	ErrUserInactive = errors.Wrap(errors.ErrForbidden, "user is inactive")
)
