package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
	"github.com/dropDatabas3/hirejohn/internal/store/mongo"
	"github.com/dropDatabas3/hirejohn/internal/store/pg"
)

type Config struct {
	Driver   string
	DSN      string
	Postgres struct {
		MaxOpenConns, MaxIdleConns int
		ConnMaxLifetime            string
	}
	Mongo struct{ URI, Database string }
}

var (
	mu       sync.Mutex
	instance core.Repository
)

// Open construye el repositorio según el driver configurado y lo memoiza.
// Debe llamarse exactamente una vez por proceso: una segunda llamada es un
// error, para que nunca convivan dos conexiones a motores distintos por
// accidente.
func Open(ctx context.Context, cfg Config) (core.Repository, error) {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return nil, fmt.Errorf("store: already opened (driver switch at runtime is not supported)")
	}

	repo, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	instance = repo
	return repo, nil
}

// Get devuelve el repositorio memoizado. Falla fuerte si Open no corrió
// todavía, en vez de construir silenciosamente una segunda instancia.
func Get() (core.Repository, error) {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		return nil, fmt.Errorf("store: not opened yet (call store.Open at startup)")
	}
	return instance, nil
}

// Close cierra la instancia y libera el singleton. Pensado para shutdown
// y para los tests del factory.
func Close(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		return nil
	}
	err := instance.Close(ctx)
	instance = nil
	return err
}

func open(ctx context.Context, cfg Config) (core.Repository, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "pg", "postgresql":
		return pg.New(ctx, cfg.DSN, pg.Options{
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
	case "mongo", "mongodb":
		return mongo.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}
