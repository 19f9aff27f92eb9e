package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httpx "github.com/dropDatabas3/hirejohn/internal/http"
	jwtx "github.com/dropDatabas3/hirejohn/internal/jwt"
	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

// AdminHandler administra el documento de setup de la aplicación (nombre de
// compañía + config de integración activa).
type AdminHandler struct {
	Repo   core.Repository
	Issuer *jwtx.Issuer
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Issuer))
		r.Get("/v1/admin/setup", h.getSetup)
		r.Put("/v1/admin/setup", h.putSetup)
	})
}

func (h *AdminHandler) getSetup(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.GetAppSetup(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "setup_not_found", "application not configured yet", 1404)
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "setup lookup failed", 1500)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

type setupIn struct {
	CompanyName string `json:"companyName"`
	ConfigID    string `json:"configId"`
}

// putSetup hace upsert: crea el documento si no existe, lo actualiza si ya
// hay uno.
func (h *AdminHandler) putSetup(w http.ResponseWriter, r *http.Request) {
	var in setupIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.CompanyName == "" {
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "companyName is required", 1400)
		return
	}

	existing, err := h.Repo.GetAppSetup(r.Context())
	switch {
	case err == nil:
		out, err := h.Repo.UpdateAppSetup(r.Context(), existing.SetupID, &core.AppSetup{
			CompanyName: in.CompanyName,
			ConfigID:    in.ConfigID,
		})
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "setup update failed", 1500)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, out)

	case errors.Is(err, core.ErrNotFound):
		now := time.Now().UTC()
		s := &core.AppSetup{
			SetupID:     uuid.NewString(),
			CompanyName: in.CompanyName,
			ConfigID:    in.ConfigID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := h.Repo.CreateAppSetup(r.Context(), s); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "setup create failed", 1500)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, s)

	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "setup lookup failed", 1500)
	}
}
