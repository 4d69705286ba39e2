package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentamate/clinicauth/modules/gateway"
	"github.com/dentamate/clinicauth/pkg/audit"
	"github.com/dentamate/clinicauth/pkg/jwt"
	"github.com/dentamate/clinicauth/pkg/rbac"
)

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

func newEnforcer(t *testing.T) (*gateway.Enforcer, *jwt.Service, *memAuditStorage) {
	t.Helper()

	signer, err := jwt.New("test-signing-key-32-bytes-long!!")
	require.NoError(t, err)

	audits := &memAuditStorage{}
	enforcer := gateway.NewEnforcer(signer, rbac.MustNewRegistry(rbac.DefaultSource()), audit.NewLogger(audits))
	return enforcer, signer, audits
}

func okHandler() (http.Handler, *bool) {
	var called bool
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func issueToken(t *testing.T, signer *jwt.Service, role rbac.Role) string {
	t.Helper()
	token, err := signer.Issue(jwt.Identity{
		UserID: "user-1", Email: "u@x.com", Role: role, ClinicID: "clinic-1",
	})
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	enforcer, signer, _ := newEnforcer(t)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid token", "Bearer " + issueToken(t, signer, rbac.RoleDoctor), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next, called := okHandler()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			enforcer.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, *called)
		})
	}
}

func TestAuthenticate_IdentityInContext(t *testing.T) {
	t.Parallel()

	enforcer, signer, _ := newEnforcer(t)

	var got jwt.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = jwt.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, signer, rbac.RoleDoctor))
	enforcer.Authenticate(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, rbac.RoleDoctor, got.Role)
	assert.Equal(t, "clinic-1", got.ClinicID)
}

func TestRequirePermission(t *testing.T) {
	t.Parallel()

	enforcer, signer, audits := newEnforcer(t)

	run := func(role rbac.Role, perms ...rbac.Permission) int {
		next, _ := okHandler()
		handler := enforcer.Authenticate(enforcer.RequirePermission(perms...)(next))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clinics", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, signer, role))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run(rbac.RoleDoctor, rbac.PatientRecordRead))
	assert.Equal(t, http.StatusOK, run(rbac.RoleSaasAdmin, rbac.ClinicDelete))
	assert.Equal(t, http.StatusForbidden, run(rbac.RolePatient, rbac.ClinicDelete))

	// Any-of semantics: one match is enough.
	assert.Equal(t, http.StatusOK, run(rbac.RoleDoctor, rbac.ClinicDelete, rbac.PatientRecordRead))

	// Denials leave an audit trail.
	denied := audits.byAction(audit.ActionPermissionDenied)
	require.NotEmpty(t, denied)
	assert.Equal(t, "user-1", denied[0].UserID)
	assert.Equal(t, "PATIENT", denied[0].Metadata["role"])
}

func TestRequireAllPermissions(t *testing.T) {
	t.Parallel()

	enforcer, signer, _ := newEnforcer(t)

	run := func(role rbac.Role, perms ...rbac.Permission) int {
		next, _ := okHandler()
		handler := enforcer.Authenticate(enforcer.RequireAllPermissions(perms...)(next))
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, signer, role))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run(rbac.RoleDoctor, rbac.PatientRecordRead, rbac.AppointmentRead))
	assert.Equal(t, http.StatusForbidden, run(rbac.RoleDoctor, rbac.PatientRecordRead, rbac.ClinicDelete))
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	enforcer, signer, _ := newEnforcer(t)

	run := func(role rbac.Role, allowed ...rbac.Role) int {
		next, _ := okHandler()
		handler := enforcer.Authenticate(enforcer.RequireRole(allowed...)(next))
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, signer, role))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run(rbac.RoleSaasAdmin, rbac.RoleSaasAdmin, rbac.RoleCentralAdmin))
	assert.Equal(t, http.StatusForbidden, run(rbac.RoleDoctor, rbac.RoleSaasAdmin))
}

func TestRequirePermission_NoIdentity(t *testing.T) {
	t.Parallel()

	enforcer, _, _ := newEnforcer(t)

	next, called := okHandler()
	rec := httptest.NewRecorder()
	enforcer.RequirePermission(rbac.PatientRecordRead)(next).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}
