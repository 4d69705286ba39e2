package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dentamate/clinicauth/pkg/jwt"
)

// Handler exposes the authentication flows over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the HTTP handler for the auth service.
func NewHandler(svc *Service) *Handler {
	if svc == nil {
		panic("auth: service cannot be nil")
	}
	return &Handler{svc: svc}
}

// Routes mounts the auth endpoints. The authenticate middleware guards the
// endpoints that need a verified identity in the request context.
func (h *Handler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
	r.Get("/verify-email", h.verifyEmail)
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password", h.resetPassword)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
	})

	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var params RegisterParams
	if !decodeBody(w, r, &params) {
		return
	}

	user, err := h.svc.Register(r.Context(), params)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusCreated,
		"User registered successfully. Please check your email to verify your account.",
		map[string]any{
			"userId":    user.ID,
			"email":     user.Email,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"role":      user.Role,
		})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := h.svc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, "Login successful", result)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.RefreshToken == "" {
		respondError(w, http.StatusBadRequest, "MISSING_TOKEN", "Refresh token is required")
		return
	}

	result, err := h.svc.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired refresh token")
			return
		}
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, "Token refreshed successfully", result)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwt.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	// Body is optional at logout.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if err := h.svc.Logout(r.Context(), identity, body.RefreshToken); err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, "Logout successful", nil)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "MISSING_TOKEN", "Verification token is required")
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), token); err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, "Email verified successfully", nil)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), body.Email); err != nil && !errors.Is(err, ErrInvalidInput) {
		respondServiceError(w, err)
		return
	}

	// Constant response regardless of whether the account exists.
	respondData(w, http.StatusOK,
		"If an account exists with this email, a password reset link will be sent.", nil)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Token == "" || body.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "MISSING_FIELDS", "Token and new password are required")
		return
	}

	if err := h.svc.ResetPassword(r.Context(), body.Token, body.NewPassword); err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, "Password reset successfully", nil)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwt.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.svc.Me(r.Context(), identity.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondData(w, http.StatusOK, "", map[string]any{"user": user})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be valid JSON")
		return false
	}
	return true
}
