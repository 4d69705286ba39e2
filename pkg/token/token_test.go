package token_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentamate/clinicauth/pkg/token"
)

func TestNewRefreshToken(t *testing.T) {
	tok := token.NewRefreshToken()
	assert.Len(t, tok, 128, "64 bytes hex-encoded")

	_, err := hex.DecodeString(tok)
	require.NoError(t, err)

	assert.NotEqual(t, tok, token.NewRefreshToken(), "tokens must not repeat")
}

func TestNewOneTimeToken(t *testing.T) {
	tok := token.NewOneTimeToken()
	assert.Len(t, tok, 64, "32 bytes hex-encoded")

	_, err := hex.DecodeString(tok)
	require.NoError(t, err)
}

func TestHash(t *testing.T) {
	tok := token.NewOneTimeToken()

	digest := token.Hash(tok)
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, token.Hash(tok), "hashing is deterministic")
	assert.NotEqual(t, digest, token.Hash(tok+"x"))
	assert.NotContains(t, digest, tok, "digest must not embed the plaintext")
}

func TestExpiryCalculators(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		got  time.Time
		want time.Duration
	}{
		{"refresh days", token.RefreshExpiry(7), 7 * 24 * time.Hour},
		{"refresh default", token.RefreshExpiry(0), token.DefaultRefreshTokenDays * 24 * time.Hour},
		{"reset hours", token.ResetExpiry(2), 2 * time.Hour},
		{"reset default", token.ResetExpiry(-1), token.DefaultResetTokenHours * time.Hour},
		{"verification hours", token.VerificationExpiry(48), 48 * time.Hour},
		{"verification default", token.VerificationExpiry(0), token.DefaultVerificationTokenHours * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.WithinDuration(t, now.Add(tt.want), tt.got, time.Minute)
		})
	}
}
