package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dentamate/clinicauth/modules/auth"
	"github.com/dentamate/clinicauth/pkg/audit"
	"github.com/dentamate/clinicauth/pkg/email"
)

// memUserStore is an in-memory UserStore with the same atomicity contract
// as the Mongo implementation: every mutation happens under one lock.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*auth.User)}
}

func (m *memUserStore) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return auth.ErrEmailAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserStore) ByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return stripSecrets(u), nil
}

func (m *memUserStore) ByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmailLocked(email)
	if u == nil {
		return nil, auth.ErrUserNotFound
	}
	return stripSecrets(u), nil
}

func (m *memUserStore) ByEmailWithSecrets(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmailLocked(email)
	if u == nil {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) byEmailLocked(email string) *auth.User {
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (m *memUserStore) IncLoginAttempts(_ context.Context, id string, threshold int, lockFor time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return false, auth.ErrUserNotFound
	}
	if !u.LockUntil.IsZero() && u.LockUntil.Before(time.Now()) {
		u.LoginAttempts = 1
		u.LockUntil = time.Time{}
		return false, nil
	}
	u.LoginAttempts++
	if u.LoginAttempts >= threshold && !u.IsLocked() {
		u.LockUntil = time.Now().Add(lockFor)
		return true, nil
	}
	return false, nil
}

func (m *memUserStore) ResetLoginAttempts(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.LoginAttempts = 0
		u.LockUntil = time.Time{}
	}
	return nil
}

func (m *memUserStore) SetLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.LastLogin = at
	}
	return nil
}

func (m *memUserStore) SetResetToken(_ context.Context, id, tokenHash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.PasswordResetTokenHash = tokenHash
	u.PasswordResetExpires = expires
	return nil
}

func (m *memUserStore) ConsumeResetToken(_ context.Context, tokenHash string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.PasswordResetTokenHash == tokenHash && u.PasswordResetExpires.After(time.Now()) {
			u.PasswordResetTokenHash = ""
			u.PasswordResetExpires = time.Time{}
			return stripSecrets(u), nil
		}
	}
	return nil, auth.ErrInvalidToken
}

func (m *memUserStore) SetVerificationToken(_ context.Context, id, tokenHash string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.VerificationTokenHash = tokenHash
	u.VerificationExpires = expires
	return nil
}

func (m *memUserStore) ConsumeVerificationToken(_ context.Context, tokenHash string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.VerificationTokenHash == tokenHash && u.VerificationExpires.After(time.Now()) {
			u.VerificationTokenHash = ""
			u.VerificationExpires = time.Time{}
			u.IsEmailVerified = true
			return stripSecrets(u), nil
		}
	}
	return nil, auth.ErrInvalidToken
}

func (m *memUserStore) UpdatePassword(_ context.Context, id string, hash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.PasswordHash = append([]byte(nil), hash...)
	return nil
}

// attempts returns the raw counter for assertions.
func (m *memUserStore) attempts(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u.LoginAttempts
	}
	return -1
}

func stripSecrets(u *auth.User) *auth.User {
	cp := *u
	cp.PasswordHash = nil
	cp.PasswordResetTokenHash = ""
	cp.VerificationTokenHash = ""
	cp.TwoFactorSecret = ""
	return &cp
}

// memTokenStore is an in-memory TokenStore whose Rotate is a true
// compare-and-swap under the lock.
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*auth.RefreshToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]*auth.RefreshToken)}
}

func (m *memTokenStore) Create(_ context.Context, tok *auth.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tok
	m.tokens[tok.Token] = &cp
	return nil
}

func (m *memTokenStore) ByToken(_ context.Context, token string) (*auth.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	cp := *t
	return &cp, nil
}

func (m *memTokenStore) Rotate(_ context.Context, oldToken, newToken, ip string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[oldToken]
	if !ok || !t.IsActive {
		return auth.ErrInvalidToken
	}
	t.IsActive = false
	t.RevokedAt = at
	t.RevokedByIP = ip
	t.ReplacedByToken = newToken
	return nil
}

func (m *memTokenStore) Revoke(_ context.Context, token, ip string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[token]; ok && t.IsActive {
		t.IsActive = false
		t.RevokedAt = at
		t.RevokedByIP = ip
	}
	return nil
}

func (m *memTokenStore) RevokeAllForUser(_ context.Context, userID string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.tokens {
		if t.UserID == userID && t.IsActive {
			t.IsActive = false
			t.RevokedAt = at
			n++
		}
	}
	return n, nil
}

// memAuditStorage records audit entries for assertions.
type memAuditStorage struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (m *memAuditStorage) Store(_ context.Context, entry audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memAuditStorage) byAction(action audit.Action) []audit.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []audit.Entry
	for _, e := range m.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// captureMailer hands sent emails to the test through a channel so
// fire-and-forget dispatch can be awaited.
type captureMailer struct {
	sent chan email.SendEmailParams
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{sent: make(chan email.SendEmailParams, 8)}
}

func (c *captureMailer) SendEmail(_ context.Context, params email.SendEmailParams) error {
	c.sent <- params
	return nil
}

func (c *captureMailer) wait(timeout time.Duration) (email.SendEmailParams, bool) {
	select {
	case params := <-c.sent:
		return params, true
	case <-time.After(timeout):
		return email.SendEmailParams{}, false
	}
}
