package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses never disclose whether an account exists.
	ErrInvalidCredentials = errors.New("auth: invalid email or password")

	// ErrAccountLocked indicates too many failed login attempts.
	ErrAccountLocked = errors.New("auth: account locked")

	// ErrAccountInactive indicates the account has been deactivated.
	ErrAccountInactive = errors.New("auth: account inactive")

	// ErrEmailAlreadyExists indicates a registration conflict.
	ErrEmailAlreadyExists = errors.New("auth: email already exists")

	// ErrInvalidToken covers missing, expired, revoked, and rotated tokens.
	ErrInvalidToken = errors.New("auth: invalid or expired token")

	// ErrUserInactive indicates the refresh token's owner was deactivated.
	ErrUserInactive = errors.New("auth: user account is inactive")

	// ErrUserNotFound indicates the user record does not exist.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrWeakPassword indicates the password fails the minimum requirements.
	ErrWeakPassword = errors.New("auth: password does not meet requirements")

	// ErrInvalidInput indicates a malformed request field.
	ErrInvalidInput = errors.New("auth: invalid input")
)

// ErrTokenReused marks a refresh token presented again after rotation, a
// potential theft signal. It unwraps to ErrInvalidToken so callers outside
// the service see the generic failure.
var ErrTokenReused = fmt.Errorf("%w: token already rotated", ErrInvalidToken)
