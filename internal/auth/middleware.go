package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxBrokerID ctxKey = "brokerID"
	CtxIsAdmin  ctxKey = "isAdmin"
)

// Authenticate rejects requests without a valid bearer token and stores the
// caller's identity in the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := ParseAndValidate(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.BrokerID, claims.IsAdmin)))
	})
}

// RequireAdmin lets only admin callers through.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			http.Error(w, "forbidden (admin only)", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns ctx carrying the broker identity.
func WithIdentity(ctx context.Context, brokerID uint, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, CtxBrokerID, brokerID)
	return context.WithValue(ctx, CtxIsAdmin, isAdmin)
}

// BrokerID returns the authenticated broker, if any.
func BrokerID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(CtxBrokerID).(uint)
	return id, ok
}

// IsAdmin reports whether the caller is an admin.
func IsAdmin(ctx context.Context) bool {
	ok, _ := ctx.Value(CtxIsAdmin).(bool)
	return ok
}
