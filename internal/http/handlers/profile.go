package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/hirejohn/internal/http"
	jwtx "github.com/dropDatabas3/hirejohn/internal/jwt"
	"github.com/dropDatabas3/hirejohn/internal/service"
	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

// ProfileHandler sirve /v1/me y el CRUD de perfil de postulante. Todas las
// rutas van detrás de RequireAuth; el email sale del token, nunca del body.
type ProfileHandler struct {
	Svc    *service.Accounts
	Issuer *jwtx.Issuer
}

func (h *ProfileHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Issuer))
		r.Get("/v1/me", h.me)
		r.Get("/v1/profile", h.get)
		r.Post("/v1/profile", h.create)
		r.Put("/v1/profile", h.update)
	})
}

func (h *ProfileHandler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "no claims in context", 1401)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"id":       claims.UserID,
		"email":    claims.Email,
		"verified": claims.Verified,
	})
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r)
	p, err := h.Svc.GetProfile(r.Context(), claims.Email)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r)
	var p core.Profile
	if !httpx.ReadJSON(w, r, &p) {
		return
	}
	out, err := h.Svc.CreateProfile(r.Context(), claims.Email, &p)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}

func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r)
	var p core.Profile
	if !httpx.ReadJSON(w, r, &p) {
		return
	}
	out, err := h.Svc.UpdateProfile(r.Context(), claims.Email, &p)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
