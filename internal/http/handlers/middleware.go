package handlers

import (
	"context"
	"net/http"

	httpx "github.com/dropDatabas3/hirejohn/internal/http"
	jwtx "github.com/dropDatabas3/hirejohn/internal/jwt"
)

type ctxKey int

const claimsKey ctxKey = iota

// RequireAuth valida el bearer token y deja los claims en el contexto.
func RequireAuth(issuer *jwtx.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := jwtx.FromRequest(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="hirejohn"`)
				httpx.WriteError(w, http.StatusUnauthorized, "missing_token", "authorization header required", 1401)
				return
			}
			claims, ok := issuer.Verify(raw)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token is invalid or expired", 1401)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// ClaimsFrom recupera los claims dejados por RequireAuth.
func ClaimsFrom(r *http.Request) (*jwtx.Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*jwtx.Claims)
	return c, ok
}
