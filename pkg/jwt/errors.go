package jwt

import "errors"

var (
	// ErrMissingSigningKey is returned when the service is built without a key.
	ErrMissingSigningKey = errors.New("jwt: missing signing key")

	// ErrMissingSubject is returned when issuing a token without a user id.
	ErrMissingSubject = errors.New("jwt: missing subject")

	// ErrInvalidOrExpired covers every verification failure: bad signature,
	// malformed payload, wrong issuer, or expiry in the past. Collapsing them
	// keeps the error channel from leaking which check failed.
	ErrInvalidOrExpired = errors.New("jwt: invalid or expired token")
)
