package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Registrar lo implementan los handlers: cada uno cuelga sus rutas.
type Registrar interface {
	Register(chi.Router)
}

type RouterConfig struct {
	AllowedOrigins []string
	// Metrics es el handler de /metrics (nil lo deshabilita).
	Metrics http.Handler
}

// NewRouter arma el router con la cadena de middlewares estándar y monta
// los handlers recibidos.
func NewRouter(cfg RouterConfig, regs ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(WithRequestID)
	r.Use(WithRecover)
	r.Use(WithLogging)
	r.Use(WithMetrics)
	r.Use(WithSecurityHeaders)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(func(next http.Handler) http.Handler {
			return WithCORS(next, cfg.AllowedOrigins)
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	for _, reg := range regs {
		reg.Register(r)
	}

	return r
}

// Start levanta el server HTTP en addr.
func Start(addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}
	return srv.ListenAndServe()
}
