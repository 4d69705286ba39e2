package gateway

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/dentamate/clinicauth/pkg/audit"
	"github.com/dentamate/clinicauth/pkg/jwt"
	"github.com/dentamate/clinicauth/pkg/logger"
	"github.com/dentamate/clinicauth/pkg/rbac"
)

// Enforcer builds the authentication and authorization middleware the
// gateway mounts in front of downstream services. Authorization decisions
// are made against the role registry; denials are audited.
type Enforcer struct {
	signer   *jwt.Service
	registry *rbac.Registry
	auditor  *audit.Logger
	log      *slog.Logger
}

// EnforcerOption configures an Enforcer.
type EnforcerOption func(*Enforcer)

// WithLogger sets the slog logger for authentication and denial events.
func WithLogger(log *slog.Logger) EnforcerOption {
	return func(e *Enforcer) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEnforcer creates the gateway's enforcement point.
func NewEnforcer(signer *jwt.Service, registry *rbac.Registry, auditor *audit.Logger, opts ...EnforcerOption) *Enforcer {
	if signer == nil {
		panic("gateway: jwt service cannot be nil")
	}
	if registry == nil {
		panic("gateway: rbac registry cannot be nil")
	}
	if auditor == nil {
		panic("gateway: audit logger cannot be nil")
	}
	e := &Enforcer{
		signer:   signer,
		registry: registry,
		auditor:  auditor,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Authenticate verifies the Bearer token and puts the identity in the
// request context. Missing and invalid tokens both end the request with 401.
func (e *Enforcer) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "No token provided")
			return
		}

		claims, err := e.signer.Verify(raw)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		identity := claims.Identity()
		ctx := jwt.SetIdentityToContext(r.Context(), identity)
		ctx = rbac.SetRoleToContext(ctx, identity.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission allows the request through when the caller's role holds
// at least one of the given permissions. Mount after Authenticate.
func (e *Enforcer) RequirePermission(permissions ...rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := jwt.IdentityFromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if !e.registry.HasAny(identity.Role, permissions...) {
				e.deny(r, identity, permissionNames(permissions))
				respondError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAllPermissions allows the request through only when the caller's
// role holds every given permission.
func (e *Enforcer) RequireAllPermissions(permissions ...rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := jwt.IdentityFromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if !e.registry.HasAll(identity.Role, permissions...) {
				e.deny(r, identity, permissionNames(permissions))
				respondError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole allows the request through when the caller holds one of the
// listed roles exactly. Prefer permission checks; role checks exist for the
// few admin-only surfaces.
func (e *Enforcer) RequireRole(roles ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := jwt.IdentityFromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if !slices.Contains(roles, identity.Role) {
				e.deny(r, identity, roleNames(roles))
				respondError(w, http.StatusForbidden, "FORBIDDEN", "Insufficient role permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (e *Enforcer) deny(r *http.Request, identity jwt.Identity, required string) {
	e.log.WarnContext(r.Context(), "permission denied",
		logger.UserID(identity.UserID),
		logger.Role(identity.Role),
		slog.String("required", required),
		slog.String("path", r.URL.Path),
	)
	e.auditor.LogError(r.Context(), audit.ActionPermissionDenied,
		fmt.Errorf("required: %s", required),
		audit.WithUser(identity.UserID),
		audit.WithEmail(identity.Email),
		audit.WithMetadata("role", string(identity.Role)),
		audit.WithMetadata("path", r.URL.Path),
	)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func permissionNames(perms []rbac.Permission) string {
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func roleNames(roles []rbac.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
