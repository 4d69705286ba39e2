package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dentamate/clinicauth/pkg/async"
	"github.com/dentamate/clinicauth/pkg/audit"
	"github.com/dentamate/clinicauth/pkg/email"
	"github.com/dentamate/clinicauth/pkg/jwt"
	"github.com/dentamate/clinicauth/pkg/logger"
	"github.com/dentamate/clinicauth/pkg/rbac"
	"github.com/dentamate/clinicauth/pkg/token"
)

// Config tunes the authentication flows.
type Config struct {
	MaxLoginAttempts  int           `env:"MAX_LOGIN_ATTEMPTS" envDefault:"5"`
	LockoutDuration   time.Duration `env:"LOGIN_LOCKOUT_DURATION" envDefault:"15m"`
	BcryptCost        int           `env:"BCRYPT_ROUNDS" envDefault:"12"`
	RefreshTokenDays  int           `env:"REFRESH_TOKEN_DAYS" envDefault:"7"`
	ResetTokenHours   int           `env:"PASSWORD_RESET_HOURS" envDefault:"1"`
	VerificationHours int           `env:"EMAIL_VERIFICATION_HOURS" envDefault:"24"`
}

// Service orchestrates the authentication flows: register, login, refresh,
// logout, email verification, and password reset. Every flow writes an
// audit event whether it succeeds or fails. Email dispatch is
// fire-and-forget: a delivery failure is logged but never rolls back the
// identity change it followed.
type Service struct {
	users   UserStore
	ledger  *Ledger
	signer  *jwt.Service
	auditor *audit.Logger
	mailer  email.EmailSender
	mailCfg email.Config
	log     *slog.Logger
	cfg     Config
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithConfig overrides the default flow configuration.
func WithConfig(cfg Config) ServiceOption {
	return func(s *Service) {
		if cfg.MaxLoginAttempts > 0 {
			s.cfg.MaxLoginAttempts = cfg.MaxLoginAttempts
		}
		if cfg.LockoutDuration > 0 {
			s.cfg.LockoutDuration = cfg.LockoutDuration
		}
		if cfg.BcryptCost > 0 {
			s.cfg.BcryptCost = cfg.BcryptCost
		}
		if cfg.RefreshTokenDays > 0 {
			s.cfg.RefreshTokenDays = cfg.RefreshTokenDays
		}
		if cfg.ResetTokenHours > 0 {
			s.cfg.ResetTokenHours = cfg.ResetTokenHours
		}
		if cfg.VerificationHours > 0 {
			s.cfg.VerificationHours = cfg.VerificationHours
		}
	}
}

// WithMailer wires the email sender used for verification, password reset,
// and welcome mail. Without it the flows still run, they just skip sending.
func WithMailer(sender email.EmailSender, cfg email.Config) ServiceOption {
	return func(s *Service) {
		s.mailer = sender
		s.mailCfg = cfg
	}
}

// WithLogger sets the slog logger for operational events.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates the authentication flow controller.
func NewService(users UserStore, ledger *Ledger, signer *jwt.Service, auditor *audit.Logger, opts ...ServiceOption) *Service {
	if users == nil {
		panic("auth: user store cannot be nil")
	}
	if ledger == nil {
		panic("auth: ledger cannot be nil")
	}
	if signer == nil {
		panic("auth: jwt service cannot be nil")
	}
	if auditor == nil {
		panic("auth: audit logger cannot be nil")
	}

	s := &Service{
		users:   users,
		ledger:  ledger,
		signer:  signer,
		auditor: auditor,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg: Config{
			MaxLoginAttempts:  5,
			LockoutDuration:   15 * time.Minute,
			BcryptCost:        12,
			RefreshTokenDays:  7,
			ResetTokenHours:   1,
			VerificationHours: 24,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterParams are the new-account fields.
type RegisterParams struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone,omitempty"`
	Role      rbac.Role `json:"role,omitempty"`
}

// Register creates a new unverified user and dispatches the verification
// email. The role defaults to PATIENT.
func (s *Service) Register(ctx context.Context, params RegisterParams) (SanitizedUser, error) {
	emailAddr := normalizeEmail(params.Email)
	if emailAddr == "" {
		return SanitizedUser{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if params.FirstName == "" || params.LastName == "" {
		return SanitizedUser{}, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if len(params.Password) < 8 {
		return SanitizedUser{}, ErrWeakPassword
	}

	role := params.Role
	if role == "" {
		role = rbac.RolePatient
	}
	if !rbac.ValidRole(role) {
		return SanitizedUser{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	if _, err := s.users.ByEmail(ctx, emailAddr); err == nil {
		s.auditor.LogError(ctx, audit.ActionRegister, ErrEmailAlreadyExists, audit.WithEmail(emailAddr))
		return SanitizedUser{}, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return SanitizedUser{}, fmt.Errorf("auth: check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cfg.BcryptCost)
	if err != nil {
		return SanitizedUser{}, fmt.Errorf("auth: hash password: %w", err)
	}

	verificationToken := token.NewOneTimeToken()

	user := &User{
		Email:                 emailAddr,
		PasswordHash:          hash,
		FirstName:             strings.TrimSpace(params.FirstName),
		LastName:              strings.TrimSpace(params.LastName),
		Phone:                 strings.TrimSpace(params.Phone),
		Role:                  role,
		Provider:              ProviderLocal,
		IsActive:              true,
		VerificationTokenHash: token.Hash(verificationToken),
		VerificationExpires:   token.VerificationExpiry(s.cfg.VerificationHours),
		CreatedAt:             time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			s.auditor.LogError(ctx, audit.ActionRegister, err, audit.WithEmail(emailAddr))
		}
		return SanitizedUser{}, err
	}

	s.sendVerificationEmail(user, verificationToken)
	s.auditor.Log(ctx, audit.ActionRegister, audit.WithUser(user.ID), audit.WithEmail(user.Email))
	s.log.InfoContext(ctx, "user registered", logger.UserID(user.ID), logger.Email(user.Email))

	return user.Sanitized(), nil
}

// LoginResult carries the issued token pair and the sanitized identity.
type LoginResult struct {
	User         SanitizedUser `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    int64         `json:"expiresIn"`
}

// Login verifies credentials and issues an access/refresh token pair.
// Unknown email and wrong password both return ErrInvalidCredentials so the
// response never discloses whether an account exists. Failed attempts are
// counted; reaching the threshold locks the account for the configured
// duration.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (LoginResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	ip := audit.IPFromContext(ctx)

	user, err := s.users.ByEmailWithSecrets(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.auditor.LogError(ctx, audit.ActionFailedLogin, errors.New("user not found"), audit.WithEmail(emailAddr))
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("auth: lookup user: %w", err)
	}

	if user.IsLocked() {
		s.auditor.LogError(ctx, audit.ActionFailedLogin, ErrAccountLocked,
			audit.WithUser(user.ID), audit.WithEmail(user.Email))
		return LoginResult{}, ErrAccountLocked
	}

	if !user.IsActive {
		s.auditor.LogError(ctx, audit.ActionFailedLogin, ErrAccountInactive,
			audit.WithUser(user.ID), audit.WithEmail(user.Email))
		return LoginResult{}, ErrAccountInactive
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		locked, incErr := s.users.IncLoginAttempts(ctx, user.ID, s.cfg.MaxLoginAttempts, s.cfg.LockoutDuration)
		if incErr != nil {
			s.log.ErrorContext(ctx, "failed to increment login attempts",
				logger.UserID(user.ID), logger.Error(incErr))
		}
		s.auditor.LogError(ctx, audit.ActionFailedLogin, errors.New("invalid password"),
			audit.WithUser(user.ID), audit.WithEmail(user.Email))
		if locked {
			s.auditor.LogError(ctx, audit.ActionAccountLocked, ErrAccountLocked,
				audit.WithUser(user.ID), audit.WithEmail(user.Email),
				audit.WithMetadata("lockout_duration", s.cfg.LockoutDuration.String()))
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	if user.LoginAttempts > 0 {
		if err := s.users.ResetLoginAttempts(ctx, user.ID); err != nil {
			s.log.ErrorContext(ctx, "failed to reset login attempts",
				logger.UserID(user.ID), logger.Error(err))
		}
	}

	accessToken, err := s.signer.Issue(identityOf(user))
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: issue access token: %w", err)
	}

	refreshToken, err := s.ledger.Issue(ctx, user.ID, ip)
	if err != nil {
		return LoginResult{}, err
	}

	now := time.Now()
	if err := s.users.SetLastLogin(ctx, user.ID, now); err != nil {
		s.log.ErrorContext(ctx, "failed to update last login",
			logger.UserID(user.ID), logger.Error(err))
	}
	user.LastLogin = now

	s.auditor.Log(ctx, audit.ActionLogin, audit.WithUser(user.ID), audit.WithEmail(user.Email))
	s.log.InfoContext(ctx, "user logged in", logger.UserID(user.ID), logger.Email(user.Email))

	return LoginResult{
		User:         user.Sanitized(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresIn:    int64(s.signer.TTL().Seconds()),
	}, nil
}

// RefreshResult carries the rotated token pair.
type RefreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Refresh rotates the refresh token and issues a new access token. A token
// presented again after rotation is treated as a theft signal: the caller
// sees the generic ErrInvalidToken while the audit trail records the reuse.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	ip := audit.IPFromContext(ctx)

	entry, err := s.ledger.Owner(ctx, refreshToken)
	if err != nil {
		s.auditor.LogError(ctx, audit.ActionTokenRefresh, ErrInvalidToken)
		return RefreshResult{}, ErrInvalidToken
	}

	user, err := s.users.ByID(ctx, entry.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return RefreshResult{}, ErrUserInactive
		}
		return RefreshResult{}, fmt.Errorf("auth: lookup token owner: %w", err)
	}
	if !user.IsActive {
		s.auditor.LogError(ctx, audit.ActionTokenRefresh, ErrUserInactive,
			audit.WithUser(user.ID), audit.WithEmail(user.Email))
		return RefreshResult{}, ErrUserInactive
	}

	next, err := s.ledger.Rotate(ctx, refreshToken, ip)
	if err != nil {
		if errors.Is(err, ErrTokenReused) {
			s.auditor.LogError(ctx, audit.ActionTokenRefresh, ErrInvalidToken,
				audit.WithUser(user.ID), audit.WithEmail(user.Email),
				audit.WithMetadata("reuse_detected", true))
			return RefreshResult{}, ErrInvalidToken
		}
		if errors.Is(err, ErrInvalidToken) {
			s.auditor.LogError(ctx, audit.ActionTokenRefresh, ErrInvalidToken,
				audit.WithUser(user.ID), audit.WithEmail(user.Email))
			return RefreshResult{}, ErrInvalidToken
		}
		return RefreshResult{}, err
	}

	accessToken, err := s.signer.Issue(identityOf(user))
	if err != nil {
		return RefreshResult{}, fmt.Errorf("auth: issue access token: %w", err)
	}

	s.auditor.Log(ctx, audit.ActionTokenRefresh, audit.WithUser(user.ID), audit.WithEmail(user.Email))

	return RefreshResult{
		AccessToken:  accessToken,
		RefreshToken: next.Token,
		ExpiresIn:    int64(s.signer.TTL().Seconds()),
	}, nil
}

// Logout revokes the refresh token. Idempotent: logging out with an
// already-revoked token still succeeds.
func (s *Service) Logout(ctx context.Context, identity jwt.Identity, refreshToken string) error {
	if refreshToken != "" {
		if err := s.ledger.Revoke(ctx, refreshToken, audit.IPFromContext(ctx)); err != nil {
			return err
		}
	}
	s.auditor.Log(ctx, audit.ActionLogout, audit.WithUser(identity.UserID), audit.WithEmail(identity.Email))
	return nil
}

// VerifyEmail consumes a verification token and marks the email verified.
// The welcome email is dispatched best-effort.
func (s *Service) VerifyEmail(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	user, err := s.users.ConsumeVerificationToken(ctx, token.Hash(rawToken))
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			s.auditor.LogError(ctx, audit.ActionEmailVerification, ErrInvalidToken)
		}
		return err
	}

	s.sendWelcomeEmail(user)
	s.auditor.Log(ctx, audit.ActionEmailVerification, audit.WithUser(user.ID), audit.WithEmail(user.Email))
	s.log.InfoContext(ctx, "email verified", logger.UserID(user.ID), logger.Email(user.Email))
	return nil
}

// ForgotPassword starts the reset flow. It always succeeds from the
// caller's perspective so responses cannot be used to probe which emails
// have accounts.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := s.users.ByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("auth: lookup user: %w", err)
	}

	resetToken := token.NewOneTimeToken()
	if err := s.users.SetResetToken(ctx, user.ID, token.Hash(resetToken), token.ResetExpiry(s.cfg.ResetTokenHours)); err != nil {
		return fmt.Errorf("auth: store reset token: %w", err)
	}

	s.sendPasswordResetEmail(user, resetToken)
	s.auditor.Log(ctx, audit.ActionPasswordResetRequest, audit.WithUser(user.ID), audit.WithEmail(user.Email))
	s.log.InfoContext(ctx, "password reset requested", logger.UserID(user.ID), logger.Email(user.Email))
	return nil
}

// ResetPassword consumes a reset token, replaces the password, and revokes
// every refresh token the user holds so stolen sessions die with the old
// password.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := s.users.ConsumeResetToken(ctx, token.Hash(rawToken))
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			s.auditor.LogError(ctx, audit.ActionPasswordReset, ErrInvalidToken)
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}

	if _, err := s.ledger.RevokeAllForUser(ctx, user.ID); err != nil {
		s.log.ErrorContext(ctx, "failed to revoke refresh tokens after password reset",
			logger.UserID(user.ID), logger.Error(err))
	}

	s.auditor.Log(ctx, audit.ActionPasswordReset, audit.WithUser(user.ID), audit.WithEmail(user.Email))
	s.log.InfoContext(ctx, "password reset", logger.UserID(user.ID), logger.Email(user.Email))
	return nil
}

// Me returns the sanitized profile of the given user.
func (s *Service) Me(ctx context.Context, userID string) (SanitizedUser, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return SanitizedUser{}, err
	}
	return user.Sanitized(), nil
}

func identityOf(u *User) jwt.Identity {
	return jwt.Identity{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		ClinicID: u.ClinicID,
		BranchID: u.BranchID,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Service) sendVerificationEmail(user *User, rawToken string) {
	if s.mailer == nil {
		return
	}
	to, name := user.Email, user.FirstName
	cfg := s.mailCfg
	async.Fire(s.log, "send verification email", func(ctx context.Context) error {
		params, err := email.VerificationEmail(cfg, to, name, rawToken)
		if err != nil {
			return err
		}
		return s.mailer.SendEmail(ctx, params)
	})
}

func (s *Service) sendPasswordResetEmail(user *User, rawToken string) {
	if s.mailer == nil {
		return
	}
	to, name := user.Email, user.FirstName
	cfg := s.mailCfg
	async.Fire(s.log, "send password reset email", func(ctx context.Context) error {
		params, err := email.PasswordResetEmail(cfg, to, name, rawToken)
		if err != nil {
			return err
		}
		return s.mailer.SendEmail(ctx, params)
	})
}

func (s *Service) sendWelcomeEmail(user *User) {
	if s.mailer == nil {
		return
	}
	to, name := user.Email, user.FirstName
	async.Fire(s.log, "send welcome email", func(ctx context.Context) error {
		params, err := email.WelcomeEmail(to, name)
		if err != nil {
			return err
		}
		return s.mailer.SendEmail(ctx, params)
	})
}
