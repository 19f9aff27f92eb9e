package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/hirejohn/internal/config"
	"github.com/dropDatabas3/hirejohn/internal/email"
	"github.com/dropDatabas3/hirejohn/internal/hr"
	httpx "github.com/dropDatabas3/hirejohn/internal/http"
	"github.com/dropDatabas3/hirejohn/internal/http/handlers"
	jwtx "github.com/dropDatabas3/hirejohn/internal/jwt"
	"github.com/dropDatabas3/hirejohn/internal/observability/logger"
	"github.com/dropDatabas3/hirejohn/internal/service"
	"github.com/dropDatabas3/hirejohn/internal/store"
	"github.com/dropDatabas3/hirejohn/internal/store/pg"
)

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func main() {
	// .env es opcional; las env reales pisan todo.
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "ruta al config.yaml")
	flag.Parse()

	path := *cfgPath
	if !fileExists(path) {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		// logger todavía no inicializado
		panic("config: " + err.Error())
	}

	logger.Init(logger.Config{Env: cfg.App.Env, ServiceName: "hirejohn"})
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	storeCfg := store.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN}
	storeCfg.Postgres.MaxOpenConns = cfg.Storage.Postgres.MaxOpenConns
	storeCfg.Postgres.MaxIdleConns = cfg.Storage.Postgres.MaxIdleConns
	storeCfg.Postgres.ConnMaxLifetime = cfg.Storage.Postgres.ConnMaxLifetime
	storeCfg.Mongo.URI = cfg.Storage.Mongo.URI
	storeCfg.Mongo.Database = cfg.Storage.Mongo.Database

	repo, err := store.Open(ctx, storeCfg)
	if err != nil {
		log.Fatal("store open failed", zap.Error(err))
	}
	defer func() { _ = store.Close(context.Background()) }()
	log.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	// Email
	var sender email.Sender
	if cfg.SMTP.LogOnly || cfg.SMTP.Host == "" {
		sender = email.LogSender{}
		log.Info("email in log-only mode")
	} else {
		s := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.User, cfg.SMTP.Pass)
		s.TLSMode = cfg.SMTP.TLSMode
		sender = s
	}

	issuer := jwtx.NewIssuer([]byte(cfg.JWT.Secret), cfg.JWT.Issuer)
	accounts := service.NewAccounts(repo, issuer, sender)
	accounts.OnEmailFailure = httpx.RecordEmailFailure
	hrClient := hr.NewClient(repo)

	// Métricas: collector del pool sólo con Postgres.
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		var pool func() *pgxpool.Pool
		if pgStore, ok := repo.(*pg.Store); ok {
			pool = pgStore.Pool
		}
		metricsHandler, err = httpx.RegisterMetrics(httpx.MetricsConfig{PGPool: pool})
		if err != nil {
			log.Fatal("metrics setup failed", zap.Error(err))
		}
	}

	router := httpx.NewRouter(
		httpx.RouterConfig{
			AllowedOrigins: cfg.Server.CORSAllowedOrigins,
			Metrics:        metricsHandler,
		},
		&handlers.AuthHandler{Svc: accounts, Issuer: issuer},
		&handlers.ProfileHandler{Svc: accounts, Issuer: issuer},
		&handlers.TokenHandler{HR: hrClient, Issuer: issuer},
		&handlers.AdminHandler{Repo: repo, Issuer: issuer},
		&handlers.ReadyzHandler{Repo: repo},
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("bye")
}
