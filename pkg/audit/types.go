package audit

import (
	"context"
	"fmt"
	"time"
)

// Action identifies the security-relevant operation an entry records.
type Action string

const (
	ActionLogin                Action = "LOGIN"
	ActionLogout               Action = "LOGOUT"
	ActionRegister             Action = "REGISTER"
	ActionPasswordResetRequest Action = "PASSWORD_RESET_REQUEST"
	ActionPasswordReset        Action = "PASSWORD_RESET"
	ActionPasswordChange       Action = "PASSWORD_CHANGE"
	ActionEmailVerification    Action = "EMAIL_VERIFICATION"
	ActionProfileUpdate        Action = "PROFILE_UPDATE"
	ActionRoleChange           Action = "ROLE_CHANGE"
	ActionAccountLocked        Action = "ACCOUNT_LOCKED"
	ActionAccountUnlocked      Action = "ACCOUNT_UNLOCKED"
	ActionFailedLogin          Action = "FAILED_LOGIN"
	ActionTokenRefresh         Action = "TOKEN_REFRESH"
	ActionPermissionDenied     Action = "PERMISSION_DENIED"
	ActionTwoFactorEnabled     Action = "TWO_FACTOR_ENABLED"
	ActionTwoFactorDisabled    Action = "TWO_FACTOR_DISABLED"
)

// RetentionPeriod is how long entries are kept before the storage layer may
// expire them.
const RetentionPeriod = 90 * 24 * time.Hour

// Entry is one append-only audit record. Entries are immutable once stored.
type Entry struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	Action    Action         `json:"action"`
	Email     string         `json:"email,omitempty"`
	IP        string         `json:"ip"`
	UserAgent string         `json:"user_agent"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate checks required fields before storage.
func (e *Entry) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidEntry)
	}
	return nil
}

// Storage persists audit entries.
type Storage interface {
	Store(ctx context.Context, entry Entry) error
}
