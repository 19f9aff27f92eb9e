package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/hirejohn/internal/hr"
	httpx "github.com/dropDatabas3/hirejohn/internal/http"
	jwtx "github.com/dropDatabas3/hirejohn/internal/jwt"
)

// TokenHandler reexpone el bearer token del sistema externo de RRHH para
// que el frontend consulte vacantes directo contra la API OData.
type TokenHandler struct {
	HR     *hr.Client
	Issuer *jwtx.Issuer
}

func (h *TokenHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Issuer))
		r.Get("/v1/token", h.mint)
	})
}

func (h *TokenHandler) mint(w http.ResponseWriter, r *http.Request) {
	tok, err := h.HR.MintToken(r.Context(), r.URL.Query().Get("config"))
	if err != nil {
		if errors.Is(err, hr.ErrNoConfig) {
			httpx.WriteError(w, http.StatusNotFound, "no_integration_config", "no HR integration configured", 1404)
			return
		}
		httpx.WriteError(w, http.StatusBadGateway, "hr_token_failed", "could not obtain token from HR system", 1502)
		return
	}
	// Nunca cachear credenciales en intermediarios.
	w.Header().Set("Cache-Control", "no-store")
	httpx.WriteJSON(w, http.StatusOK, tok)
}
