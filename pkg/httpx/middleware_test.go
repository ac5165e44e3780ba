package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/records/pkg/httpx"
	"github.com/aussiebroadwan/records/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mark("a"), mark("b"), httpx.AllowOrigin("*"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"a", "b"}, order)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthenticateNilVerifierPassesThrough(t *testing.T) {
	h := httpx.Authenticate(nil)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateAndScopes(t *testing.T) {
	secret := []byte("s3cret")
	v, err := jwtx.NewHS256(secret, "")
	require.NoError(t, err)

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := httpx.Chain(inner, httpx.Authenticate(v), httpx.RequireAnyScope("records:write"))

	serve := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/clients", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := serve("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("insufficient scope", func(t *testing.T) {
		tok, err := jwtx.SignHS256(secret, jwtx.NewClaims("reader", "", []string{"records:read"}, time.Hour, time.Now().UTC()))
		require.NoError(t, err)
		rec := serve(tok)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.JSONEq(t, `{"message":"insufficient scope"}`, rec.Body.String())
	})

	t.Run("allowed", func(t *testing.T) {
		tok, err := jwtx.SignHS256(secret, jwtx.NewClaims("writer", "", []string{"records:write"}, time.Hour, time.Now().UTC()))
		require.NoError(t, err)
		rec := serve(tok)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "writer", seen)
	})
}
