// Package pg implementa core.Repository sobre PostgreSQL con pgx/v5.
// La unicidad de email y el id autoincremental son nativos del motor.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg: empty dsn")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse config: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		cfg.MaxConns = int32(opts.MaxOpenConns)
	}
	// pgxpool no tiene MaxIdleConns; lo mapeamos a MinConns.
	if opts.MaxIdleConns > 0 {
		cfg.MinConns = int32(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime != "" {
		if dur, err := time.ParseDuration(opts.ConnMaxLifetime); err == nil {
			cfg.MaxConnLifetime = dur
			cfg.MaxConnIdleTime = dur
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	// Conectar ahora para fallar rápido en el arranque.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Pool expone el pool para los collectors de métricas.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// QueryRaw corre una consulta de diagnóstico y devuelve la primera columna
// de la primera fila. Sólo para liveness/diagnóstico, nunca lógica de negocio.
func (s *Store) QueryRaw(ctx context.Context, query string) (any, error) {
	var out any
	if err := s.pool.QueryRow(ctx, query).Scan(&out); err != nil {
		return nil, normalize(err)
	}
	return out, nil
}

func (s *Store) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

// normalize traduce errores del driver a los sentinelas de core.
// Nunca se inspeccionan substrings de mensajes: sólo códigos SQLSTATE.
func normalize(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return core.ErrConflict
	}
	return fmt.Errorf("pg: %w", err)
}
