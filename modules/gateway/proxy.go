package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/dentamate/clinicauth/pkg/jwt"
	"github.com/dentamate/clinicauth/pkg/logger"
)

// identityHeaders are the trusted headers downstream services read. Any
// client-supplied values are stripped before the gateway stamps its own:
// the gateway is the only writer across the trust boundary.
var identityHeaders = []string{
	"X-User-Id",
	"X-User-Role",
	"X-Clinic-Id",
	"X-Branch-Id",
}

// ServiceProxy forwards requests to one downstream service, translating the
// verified identity into trusted headers.
type ServiceProxy struct {
	proxy *httputil.ReverseProxy
}

// NewServiceProxy creates a reverse proxy for the given target base URL.
// stripPrefix is removed from the request path before forwarding, so
// /api/v1/appointments/123 reaches the appointment service as /123.
func NewServiceProxy(target *url.URL, stripPrefix string, log *slog.Logger) *ServiceProxy {
	if target == nil {
		panic("gateway: proxy target cannot be nil")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()

			if stripPrefix != "" {
				trimmed := strings.TrimPrefix(pr.In.URL.Path, stripPrefix)
				if trimmed == "" {
					trimmed = "/"
				}
				pr.Out.URL.Path = target.JoinPath(trimmed).Path
			}

			for _, h := range identityHeaders {
				pr.Out.Header.Del(h)
			}
			if identity, ok := jwt.IdentityFromContext(pr.In.Context()); ok {
				pr.Out.Header.Set("X-User-Id", identity.UserID)
				pr.Out.Header.Set("X-User-Role", string(identity.Role))
				if identity.ClinicID != "" {
					pr.Out.Header.Set("X-Clinic-Id", identity.ClinicID)
				}
				if identity.BranchID != "" {
					pr.Out.Header.Set("X-Branch-Id", identity.BranchID)
				}
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.ErrorContext(r.Context(), "proxy error",
				slog.String("target", target.String()),
				slog.String("path", r.URL.Path),
				logger.Error(err),
			)
			respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
				"Service temporarily unavailable: "+target.Host)
		},
	}

	return &ServiceProxy{proxy: rp}
}

func (p *ServiceProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.proxy.ServeHTTP(w, r)
}
