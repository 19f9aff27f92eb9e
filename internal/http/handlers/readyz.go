package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/hirejohn/internal/http"
	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

// ReadyzHandler responde 200 sólo si el storage contesta el ping.
type ReadyzHandler struct {
	Repo core.Repository
}

func (h *ReadyzHandler) Register(r chi.Router) {
	r.Get("/readyz", h.readyz)
}

func (h *ReadyzHandler) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Repo.Ping(ctx); err != nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "not_ready", "storage unreachable", 1503)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
