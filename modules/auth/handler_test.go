package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentamate/clinicauth/modules/auth"
	"github.com/dentamate/clinicauth/pkg/jwt"
)

// passthroughAuth stubs the authentication middleware with a fixed identity.
func passthroughAuth(identity jwt.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(jwt.SetIdentityToContext(r.Context(), identity)))
		})
	}
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	routes := auth.NewHandler(env.svc).Routes(passthroughAuth(jwt.Identity{}))

	rec := postJSON(t, routes, "/register", map[string]string{
		"email":     "a@x.com",
		"password":  "Sup3rSecret!",
		"firstName": "Jane",
		"lastName":  "Doe",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["timestamp"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "a@x.com", data["email"])
	assert.Equal(t, "PATIENT", data["role"])

	// Duplicate registration gets the conflict code.
	rec = postJSON(t, routes, "/register", map[string]string{
		"email":     "a@x.com",
		"password":  "Sup3rSecret!",
		"firstName": "Jane",
		"lastName":  "Doe",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeEnvelope(t, rec)
	assert.Equal(t, "USER_EXISTS", body["error"].(map[string]any)["code"])
}

func TestHandler_LoginAndRefresh(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	routes := auth.NewHandler(env.svc).Routes(passthroughAuth(jwt.Identity{}))
	register(t, env, "a@x.com")

	rec := postJSON(t, routes, "/login", map[string]string{
		"email":    "a@x.com",
		"password": "Sup3rSecret!",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	refreshToken := data["refreshToken"].(string)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, refreshToken)

	rec = postJSON(t, routes, "/refresh", map[string]string{"refreshToken": refreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	// The rotated-out token is rejected with 401.
	rec = postJSON(t, routes, "/refresh", map[string]string{"refreshToken": refreshToken})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", decodeEnvelope(t, rec)["error"].(map[string]any)["code"])
}

func TestHandler_LoginBadCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	routes := auth.NewHandler(env.svc).Routes(passthroughAuth(jwt.Identity{}))

	rec := postJSON(t, routes, "/login", map[string]string{
		"email":    "ghost@x.com",
		"password": "whatever1",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope(t, rec)["error"].(map[string]any)["code"])
}

func TestHandler_RefreshMissingToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	routes := auth.NewHandler(env.svc).Routes(passthroughAuth(jwt.Identity{}))

	rec := postJSON(t, routes, "/refresh", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_TOKEN", decodeEnvelope(t, rec)["error"].(map[string]any)["code"])
}

func TestHandler_Me(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := register(t, env, "a@x.com")
	routes := auth.NewHandler(env.svc).Routes(passthroughAuth(jwt.Identity{
		UserID: user.ID, Email: user.Email, Role: user.Role,
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, "a@x.com", data["user"].(map[string]any)["email"])
}

func TestHandler_ForgotPasswordConstantResponse(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	routes := auth.NewHandler(env.svc).Routes(passthroughAuth(jwt.Identity{}))
	register(t, env, "real@x.com")

	known := postJSON(t, routes, "/forgot-password", map[string]string{"email": "real@x.com"})
	unknown := postJSON(t, routes, "/forgot-password", map[string]string{"email": "ghost@x.com"})

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t,
		decodeEnvelope(t, known)["message"],
		decodeEnvelope(t, unknown)["message"])
}

func TestHandler_VerifyEmailMissingToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	routes := auth.NewHandler(env.svc).Routes(passthroughAuth(jwt.Identity{}))

	req := httptest.NewRequest(http.MethodGet, "/verify-email", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_TOKEN", decodeEnvelope(t, rec)["error"].(map[string]any)["code"])
}
