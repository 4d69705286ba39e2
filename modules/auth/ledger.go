package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentamate/clinicauth/pkg/token"
)

// Ledger manages the refresh-token lifecycle. It is the sole mutator of
// RefreshToken records: issue at login, rotate on refresh, revoke at logout
// or bulk on password reset.
type Ledger struct {
	store      TokenStore
	expiryDays int
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithRefreshExpiryDays overrides the default refresh-token lifetime.
func WithRefreshExpiryDays(days int) LedgerOption {
	return func(l *Ledger) {
		if days > 0 {
			l.expiryDays = days
		}
	}
}

// NewLedger creates a refresh-token ledger over the given store.
func NewLedger(store TokenStore, opts ...LedgerOption) *Ledger {
	if store == nil {
		panic("auth: token store cannot be nil")
	}
	l := &Ledger{store: store}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Issue creates and persists a new active refresh token for the user.
func (l *Ledger) Issue(ctx context.Context, userID, ip string) (*RefreshToken, error) {
	tok := &RefreshToken{
		ID:          uuid.NewString(),
		UserID:      userID,
		Token:       token.NewRefreshToken(),
		ExpiresAt:   token.RefreshExpiry(l.expiryDays),
		CreatedByIP: ip,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := l.store.Create(ctx, tok); err != nil {
		return nil, fmt.Errorf("auth: issue refresh token: %w", err)
	}
	return tok, nil
}

// Rotate exchanges an active refresh token for a successor. The old token is
// deactivated and linked to the new one in a single conditional update, so
// at most one live token ever descends from it. Presenting a token that was
// already rotated returns ErrTokenReused; expired or unknown tokens return
// ErrInvalidToken.
func (l *Ledger) Rotate(ctx context.Context, oldToken, ip string) (*RefreshToken, error) {
	existing, err := l.store.ByToken(ctx, oldToken)
	if err != nil {
		return nil, err
	}
	if !existing.IsActive {
		return nil, ErrTokenReused
	}
	if !time.Now().Before(existing.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	next := &RefreshToken{
		ID:          uuid.NewString(),
		UserID:      existing.UserID,
		Token:       token.NewRefreshToken(),
		ExpiresAt:   token.RefreshExpiry(l.expiryDays),
		CreatedByIP: ip,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	// The conditional swap is the linearization point: a concurrent rotation
	// of the same token loses here and never persists its successor.
	if err := l.store.Rotate(ctx, oldToken, next.Token, ip, time.Now()); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, ErrTokenReused
		}
		return nil, fmt.Errorf("auth: rotate refresh token: %w", err)
	}
	if err := l.store.Create(ctx, next); err != nil {
		return nil, fmt.Errorf("auth: persist rotated token: %w", err)
	}
	return next, nil
}

// Owner returns the ledger entry for a token so callers can check the
// owning user before rotating. Unknown tokens return ErrInvalidToken.
func (l *Ledger) Owner(ctx context.Context, tok string) (*RefreshToken, error) {
	return l.store.ByToken(ctx, tok)
}

// Revoke deactivates the token. Idempotent: revoking an already-revoked or
// unknown token succeeds without error.
func (l *Ledger) Revoke(ctx context.Context, tok, ip string) error {
	if err := l.store.Revoke(ctx, tok, ip, time.Now()); err != nil {
		return fmt.Errorf("auth: revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllForUser deactivates every active token the user owns. Used on
// password reset so stolen refresh tokens die with the old password.
func (l *Ledger) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	n, err := l.store.RevokeAllForUser(ctx, userID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("auth: revoke user tokens: %w", err)
	}
	return n, nil
}
