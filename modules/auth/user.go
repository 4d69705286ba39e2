package auth

import (
	"time"

	"github.com/dentamate/clinicauth/pkg/rbac"
)

// AuthProvider identifies how the account authenticates.
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "LOCAL"
	ProviderGoogle   AuthProvider = "GOOGLE"
	ProviderFacebook AuthProvider = "FACEBOOK"
)

// User is the identity record. Secret fields (password hash, one-time token
// hashes, two-factor secret) are only populated by store methods that
// explicitly select them and must never leave the service boundary.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Phone        string
	Role         rbac.Role
	ClinicID     string
	BranchID     string
	Provider     AuthProvider

	IsEmailVerified bool
	IsPhoneVerified bool
	IsActive        bool

	LoginAttempts int
	LockUntil     time.Time
	LastLogin     time.Time

	PasswordResetTokenHash string
	PasswordResetExpires   time.Time
	VerificationTokenHash  string
	VerificationExpires    time.Time

	TwoFactorEnabled bool
	TwoFactorSecret  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLocked reports whether the account is under a lockout window.
func (u *User) IsLocked() bool {
	return !u.LockUntil.IsZero() && u.LockUntil.After(time.Now())
}

// SanitizedUser is the client-facing view of a user with all secret
// material stripped.
type SanitizedUser struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Phone           string    `json:"phone,omitempty"`
	Role            rbac.Role `json:"role"`
	ClinicID        string    `json:"clinicId,omitempty"`
	BranchID        string    `json:"branchId,omitempty"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	IsPhoneVerified bool      `json:"isPhoneVerified"`
	IsActive        bool      `json:"isActive"`
	LastLogin       time.Time `json:"lastLogin,omitzero"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Sanitized returns the client-facing view of the user.
func (u *User) Sanitized() SanitizedUser {
	return SanitizedUser{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		Role:            u.Role,
		ClinicID:        u.ClinicID,
		BranchID:        u.BranchID,
		IsEmailVerified: u.IsEmailVerified,
		IsPhoneVerified: u.IsPhoneVerified,
		IsActive:        u.IsActive,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
	}
}
