package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dentamate/clinicauth/pkg/rbac"
)

// Issuer tags every access token minted by the platform.
const Issuer = "clinicauth"

// DefaultAccessTokenTTL is the access token lifetime when none is configured.
const DefaultAccessTokenTTL = 24 * time.Hour

// Claims is the access token payload. Tenant identifiers are optional and
// omitted for platform-level accounts.
type Claims struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email"`
	Role     rbac.Role `json:"role"`
	ClinicID string    `json:"clinicId,omitempty"`
	BranchID string    `json:"branchId,omitempty"`
	jwt.RegisteredClaims
}

// Identity carries the fields embedded into an access token.
type Identity struct {
	UserID   string
	Email    string
	Role     rbac.Role
	ClinicID string
	BranchID string
}

// Identity extracts the identity fields from verified claims.
func (c Claims) Identity() Identity {
	return Identity{
		UserID:   c.UserID,
		Email:    c.Email,
		Role:     c.Role,
		ClinicID: c.ClinicID,
		BranchID: c.BranchID,
	}
}

// Service mints and verifies HS256-signed access tokens. The signing key
// lives only in memory and should carry at least 32 bytes of entropy.
type Service struct {
	signingKey []byte
	ttl        time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides the access token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New creates a token service with the given signing key.
func New(signingKey string, opts ...Option) (*Service, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}

	s := &Service{
		signingKey: []byte(signingKey),
		ttl:        DefaultAccessTokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured access token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs an access token for the given identity.
func (s *Service) Issue(id Identity) (string, error) {
	if id.UserID == "" {
		return "", ErrMissingSubject
	}

	now := time.Now().UTC()
	claims := Claims{
		UserID:   id.UserID,
		Email:    id.Email,
		Role:     id.Role,
		ClinicID: id.ClinicID,
		BranchID: id.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// Verify checks the signature, issuer, and temporal claims of a token.
// Every failure mode collapses to ErrInvalidOrExpired so callers cannot
// distinguish a forged token from an expired one.
func (s *Service) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidOrExpired
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, ErrInvalidOrExpired
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return Claims{}, ErrInvalidOrExpired
	}
	return *claims, nil
}
