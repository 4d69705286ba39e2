package audit

import (
	"context"
	"net/http"

	"github.com/dentamate/clinicauth/pkg/clientip"
)

type requestInfoCtxKey struct{}

type requestInfo struct {
	ip        string
	userAgent string
}

// WithRequestInfo stores the caller's IP and user agent in the context so
// the logger can stamp them onto every entry of the request.
func WithRequestInfo(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, requestInfoCtxKey{}, requestInfo{ip: ip, userAgent: userAgent})
}

// Middleware captures request info for downstream audit entries.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestInfo(r.Context(), clientip.FromRequest(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestInfoFromContext(ctx context.Context) (requestInfo, bool) {
	info, ok := ctx.Value(requestInfoCtxKey{}).(requestInfo)
	return info, ok
}

// IPFromContext returns the client IP captured by Middleware, or "unknown".
func IPFromContext(ctx context.Context) string {
	if info, ok := requestInfoFromContext(ctx); ok && info.ip != "" {
		return info.ip
	}
	return "unknown"
}
