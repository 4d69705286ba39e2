package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dentamate/clinicauth/pkg/audit"
	"github.com/dentamate/clinicauth/pkg/rbac"
)

// NewRouter builds the gateway route table: public auth endpoints, then the
// authenticated service routes with their permission guards.
func NewRouter(cfg Config, enforcer *Enforcer, log *slog.Logger) (http.Handler, error) {
	proxies := map[string]*ServiceProxy{}
	for prefix, raw := range map[string]string{
		"/api/v1/auth":          cfg.AuthServiceURL,
		"/api/v1/users":         cfg.UserServiceURL,
		"/api/v1/clinics":       cfg.ClinicServiceURL,
		"/api/v1/branches":      cfg.ClinicServiceURL,
		"/api/v1/appointments":  cfg.AppointmentServiceURL,
		"/api/v1/billing":       cfg.BillingServiceURL,
		"/api/v1/payments":      cfg.BillingServiceURL,
		"/api/v1/notifications": cfg.NotificationServiceURL,
		"/api/v1/ai/diagnosis":  cfg.AIDiagnosisServiceURL,
		"/api/v1/ai/ocr":        cfg.OCRServiceURL,
		"/api/v1/analytics":     cfg.AnalyticsServiceURL,
	} {
		target, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse target for %s: %w", prefix, err)
		}
		proxies[prefix] = NewServiceProxy(target, prefix, log)
	}

	r := chi.NewRouter()
	r.Use(audit.Middleware)

	// Public auth endpoints pass through unauthenticated.
	authProxy := proxies["/api/v1/auth"]
	for _, p := range []string{"/register", "/login", "/refresh", "/forgot-password", "/reset-password", "/verify-email"} {
		r.Handle("/api/v1/auth"+p, authProxy)
	}

	r.Group(func(r chi.Router) {
		r.Use(enforcer.Authenticate)

		r.Handle("/api/v1/auth/logout", authProxy)
		r.Handle("/api/v1/auth/me", authProxy)

		mount := func(prefix string, guards ...func(http.Handler) http.Handler) {
			var h http.Handler = proxies[prefix]
			for i := len(guards) - 1; i >= 0; i-- {
				h = guards[i](h)
			}
			r.Handle(prefix, h)
			r.Handle(prefix+"/*", h)
		}

		mount("/api/v1/users")
		mount("/api/v1/clinics", enforcer.RequirePermission(rbac.ClinicRead))
		mount("/api/v1/branches", enforcer.RequirePermission(rbac.BranchRead))
		mount("/api/v1/appointments", enforcer.RequirePermission(rbac.AppointmentRead))
		mount("/api/v1/billing", enforcer.RequirePermission(rbac.BillingRead))
		mount("/api/v1/payments", enforcer.RequirePermission(rbac.PaymentProcess))
		mount("/api/v1/notifications")
		mount("/api/v1/ai/diagnosis", enforcer.RequirePermission(rbac.AIDiagnosisUse))
		mount("/api/v1/ai/ocr", enforcer.RequirePermission(rbac.AIOCRUse))
		mount("/api/v1/analytics", enforcer.RequirePermission(rbac.AnalyticsView))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r, nil
}
