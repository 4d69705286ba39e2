// Package token generates and hashes the opaque credentials used for refresh
// tokens, password resets, and email verification. Opaque tokens never embed
// claims: they are random references validated against a store, and the
// single-use variants are persisted only as SHA-256 digests so a leaked
// store never yields a usable token.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Entropy sizes in bytes. Refresh tokens are long-lived and get the larger
// value; single-use tokens match the original 32-byte reset/verify tokens.
const (
	refreshTokenBytes = 64
	oneTimeTokenBytes = 32
)

// Default lifetimes, overridable through configuration.
const (
	DefaultRefreshTokenDays       = 7
	DefaultResetTokenHours        = 1
	DefaultVerificationTokenHours = 24
)

// NewRefreshToken returns a hex-encoded 64-byte random token.
func NewRefreshToken() string {
	return randomHex(refreshTokenBytes)
}

// NewOneTimeToken returns a hex-encoded 32-byte random token, used for
// password reset and email verification links.
func NewOneTimeToken() string {
	return randomHex(oneTimeTokenBytes)
}

// Hash returns the hex-encoded SHA-256 digest of a token. It is the only
// form in which single-use tokens may be stored.
func Hash(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}

// RefreshExpiry computes a refresh token expiry the given number of days
// from now. Non-positive days fall back to the default.
func RefreshExpiry(days int) time.Time {
	if days <= 0 {
		days = DefaultRefreshTokenDays
	}
	return time.Now().Add(time.Duration(days) * 24 * time.Hour)
}

// ResetExpiry computes a password reset token expiry the given number of
// hours from now.
func ResetExpiry(hours int) time.Time {
	if hours <= 0 {
		hours = DefaultResetTokenHours
	}
	return time.Now().Add(time.Duration(hours) * time.Hour)
}

// VerificationExpiry computes an email verification token expiry the given
// number of hours from now.
func VerificationExpiry(hours int) time.Time {
	if hours <= 0 {
		hours = DefaultVerificationTokenHours
	}
	return time.Now().Add(time.Duration(hours) * time.Hour)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	// crypto/rand.Read never fails on supported platforms; a failure here
	// means the process cannot safely issue credentials at all.
	if _, err := rand.Read(buf); err != nil {
		panic("token: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
