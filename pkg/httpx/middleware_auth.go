package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/records/pkg/jwtx"
	"github.com/aussiebroadwan/records/pkg/slogx"
)

// Authenticate is the auth hook in front of every record route. With a nil
// verifier it passes every request through untouched; authentication is then
// expected to be enforced upstream (gateway, mesh).
func Authenticate(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		if v == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			// 1. Pull the bearer token off the request
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			// 2. Check signature, issuer and expiry in one go
			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "error", err)
				writeBearerError(w, "token verification failed")
				return
			}

			// 3. Inject into context for the scope check and rate limiter.
			ctx := context.WithValue(r.Context(), CtxKeySubject, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeyScopes, claims.Scopes)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAnyScope rejects requests whose token carries none of the given
// scopes. Only meaningful behind Authenticate with a non-nil verifier.
func RequireAnyScope(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, s := range required {
		want[s] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Any one matching scope is enough.
			for _, s := range scopesFromCtx(r.Context()) {
				if _, ok := want[s]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}
			w.Header().Set("WWW-Authenticate",
				`Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
			WriteMessage(w, http.StatusForbidden, "insufficient scope")
		})
	}
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteMessage(w, http.StatusUnauthorized, desc)
}
