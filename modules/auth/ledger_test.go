package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentamate/clinicauth/modules/auth"
)

func TestLedger_Issue(t *testing.T) {
	t.Parallel()

	store := newMemTokenStore()
	ledger := auth.NewLedger(store)

	tok, err := ledger.Issue(context.Background(), "user-1", "203.0.113.9")
	require.NoError(t, err)

	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, "user-1", tok.UserID)
	assert.Equal(t, "203.0.113.9", tok.CreatedByIP)
	assert.True(t, tok.IsActive)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), tok.ExpiresAt, time.Minute)
}

func TestLedger_IssueCustomExpiry(t *testing.T) {
	t.Parallel()

	ledger := auth.NewLedger(newMemTokenStore(), auth.WithRefreshExpiryDays(30))

	tok, err := ledger.Issue(context.Background(), "user-1", "ip")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), tok.ExpiresAt, time.Minute)
}

func TestLedger_RotateLinksChain(t *testing.T) {
	t.Parallel()

	store := newMemTokenStore()
	ledger := auth.NewLedger(store)
	ctx := context.Background()

	old, err := ledger.Issue(ctx, "user-1", "ip-a")
	require.NoError(t, err)

	next, err := ledger.Rotate(ctx, old.Token, "ip-b")
	require.NoError(t, err)
	assert.NotEqual(t, old.Token, next.Token)
	assert.Equal(t, "user-1", next.UserID)

	rotated, err := store.ByToken(ctx, old.Token)
	require.NoError(t, err)
	assert.False(t, rotated.IsActive)
	assert.Equal(t, next.Token, rotated.ReplacedByToken)
	assert.Equal(t, "ip-b", rotated.RevokedByIP)
	assert.False(t, rotated.RevokedAt.IsZero())
}

func TestLedger_RotateReuse(t *testing.T) {
	t.Parallel()

	ledger := auth.NewLedger(newMemTokenStore())
	ctx := context.Background()

	old, err := ledger.Issue(ctx, "user-1", "ip")
	require.NoError(t, err)

	_, err = ledger.Rotate(ctx, old.Token, "ip")
	require.NoError(t, err)

	_, err = ledger.Rotate(ctx, old.Token, "ip")
	assert.ErrorIs(t, err, auth.ErrTokenReused)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLedger_RotateUnknownToken(t *testing.T) {
	t.Parallel()

	ledger := auth.NewLedger(newMemTokenStore())

	_, err := ledger.Rotate(context.Background(), "no-such-token", "ip")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLedger_RotateConcurrentExactlyOneWins(t *testing.T) {
	t.Parallel()

	ledger := auth.NewLedger(newMemTokenStore())
	ctx := context.Background()

	old, err := ledger.Issue(ctx, "user-1", "ip")
	require.NoError(t, err)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = ledger.Rotate(ctx, old.Token, "ip")
		}()
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestLedger_RevokeIdempotent(t *testing.T) {
	t.Parallel()

	store := newMemTokenStore()
	ledger := auth.NewLedger(store)
	ctx := context.Background()

	tok, err := ledger.Issue(ctx, "user-1", "ip")
	require.NoError(t, err)

	require.NoError(t, ledger.Revoke(ctx, tok.Token, "ip"))
	require.NoError(t, ledger.Revoke(ctx, tok.Token, "ip"))
	require.NoError(t, ledger.Revoke(ctx, "never-issued", "ip"))

	revoked, err := store.ByToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.False(t, revoked.IsActive)
}

func TestLedger_RevokeAllForUser(t *testing.T) {
	t.Parallel()

	ledger := auth.NewLedger(newMemTokenStore())
	ctx := context.Background()

	for range 3 {
		_, err := ledger.Issue(ctx, "user-1", "ip")
		require.NoError(t, err)
	}
	other, err := ledger.Issue(ctx, "user-2", "ip")
	require.NoError(t, err)

	n, err := ledger.RevokeAllForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// Other users are untouched.
	kept, err := ledger.Owner(ctx, other.Token)
	require.NoError(t, err)
	assert.True(t, kept.IsActive)
}
