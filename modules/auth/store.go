package auth

import (
	"context"
	"time"
)

// RefreshToken is one entry in the refresh-token ledger. A token is valid
// iff it is active and unexpired. Rotated and revoked tokens stay in the
// ledger until the storage TTL expires them, so reuse can be detected.
type RefreshToken struct {
	ID              string
	UserID          string
	Token           string
	ExpiresAt       time.Time
	CreatedByIP     string
	RevokedAt       time.Time
	RevokedByIP     string
	ReplacedByToken string
	IsActive        bool
	CreatedAt       time.Time
}

// Valid reports whether the token is active and unexpired.
func (t *RefreshToken) Valid() bool {
	return t.IsActive && time.Now().Before(t.ExpiresAt)
}

// UserStore persists identity records. Implementations must make the
// counter and token mutations single atomic updates keyed by the user id:
// concurrent requests for the same user race only on "at least once"
// increment semantics, never on torn writes.
type UserStore interface {
	// Create inserts a new user, assigning an ID when none is set. Returns
	// ErrEmailAlreadyExists when the email is taken.
	Create(ctx context.Context, user *User) error

	// ByID returns the user without secret fields, or ErrUserNotFound.
	ByID(ctx context.Context, id string) (*User, error)

	// ByEmail returns the user without secret fields, or ErrUserNotFound.
	// The email is matched lowercased.
	ByEmail(ctx context.Context, email string) (*User, error)

	// ByEmailWithSecrets additionally selects the password hash for
	// credential verification.
	ByEmailWithSecrets(ctx context.Context, email string) (*User, error)

	// IncLoginAttempts atomically increments the failed-attempt counter.
	// When the counter reaches threshold the account is locked until
	// now+lockFor; a lapsed lock resets the counter to 1 first. Returns
	// whether this call locked the account.
	IncLoginAttempts(ctx context.Context, id string, threshold int, lockFor time.Duration) (locked bool, err error)

	// ResetLoginAttempts clears the counter and any lock.
	ResetLoginAttempts(ctx context.Context, id string) error

	// SetLastLogin stamps the last successful login time.
	SetLastLogin(ctx context.Context, id string, at time.Time) error

	// SetResetToken stores the hashed password-reset token and its expiry.
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error

	// ConsumeResetToken finds the user by unexpired reset-token hash and
	// clears the token fields in the same update. Returns ErrInvalidToken
	// when no user matches.
	ConsumeResetToken(ctx context.Context, tokenHash string) (*User, error)

	// SetVerificationToken stores the hashed email-verification token and
	// its expiry.
	SetVerificationToken(ctx context.Context, id, tokenHash string, expires time.Time) error

	// ConsumeVerificationToken finds the user by unexpired verification-token
	// hash, marks the email verified, and clears the token fields in the
	// same update. Returns ErrInvalidToken when no user matches.
	ConsumeVerificationToken(ctx context.Context, tokenHash string) (*User, error)

	// UpdatePassword replaces the password hash.
	UpdatePassword(ctx context.Context, id string, hash []byte) error
}

// TokenStore persists the refresh-token ledger.
type TokenStore interface {
	// Create inserts a new ledger entry.
	Create(ctx context.Context, tok *RefreshToken) error

	// ByToken returns the entry for the exact token value, or
	// ErrInvalidToken when absent.
	ByToken(ctx context.Context, token string) (*RefreshToken, error)

	// Rotate deactivates oldToken and links it to newToken in a single
	// conditional update that succeeds only while oldToken is still active.
	// A concurrent second rotation of the same token must observe
	// ErrInvalidToken.
	Rotate(ctx context.Context, oldToken, newToken, ip string, at time.Time) error

	// Revoke deactivates the token. Revoking an already-inactive or unknown
	// token is a no-op.
	Revoke(ctx context.Context, token, ip string, at time.Time) error

	// RevokeAllForUser deactivates every active token owned by the user and
	// returns how many were revoked.
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) (int64, error)
}
