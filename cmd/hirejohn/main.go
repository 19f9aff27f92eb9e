package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hirejohn/internal/config"
	"github.com/dropDatabas3/hirejohn/internal/store"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("HIREJOHN_URL", "http://localhost:8080")
		token   = envOr("HIREJOHN_TOKEN", "")
		out     = envOr("HIREJOHN_OUT", "text")
	)

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}

	root := &cobra.Command{
		Use:   "hirejohn",
		Short: "CLI de operación para el portal (health, setup, token)",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cl.BaseURL = baseURL
			cl.Token = token
			cl.OutFormat = out
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env HIREJOHN_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "bearer token (env HIREJOHN_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "formato de salida: text|json (env HIREJOHN_OUT)")

	root.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "GET /healthz y /readyz",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, body, err := cl.do(http.MethodGet, "/healthz", nil)
			if err != nil {
				return err
			}
			fmt.Printf("healthz: %d %s\n", st, strings.TrimSpace(string(body)))
			st, body, err = cl.do(http.MethodGet, "/readyz", nil)
			if err != nil {
				return err
			}
			fmt.Printf("readyz:  %d %s\n", st, strings.TrimSpace(string(body)))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "setup",
		Short: "GET /v1/admin/setup (requiere token)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, body, err := cl.do(http.MethodGet, "/v1/admin/setup", nil)
			if err != nil {
				return err
			}
			cl.print(st, body)
			return nil
		},
	})

	setSetup := &cobra.Command{
		Use:   "set-setup <companyName> [configId]",
		Short: "PUT /v1/admin/setup (requiere token)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := map[string]string{"companyName": args[0]}
			if len(args) == 2 {
				in["configId"] = args[1]
			}
			b, _ := json.Marshal(in)
			st, body, err := cl.do(http.MethodPut, "/v1/admin/setup", b)
			if err != nil {
				return err
			}
			cl.print(st, body)
			return nil
		},
	}
	root.AddCommand(setSetup)

	checkStore := &cobra.Command{
		Use:   "check-store [query]",
		Short: "abre el storage con la config local y corre Ping + una query de diagnóstico",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfgPath, _ := cmd.Flags().GetString("config")
			if _, err := os.Stat(cfgPath); err != nil {
				cfgPath = ""
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			storeCfg := store.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN}
			storeCfg.Postgres.MaxOpenConns = cfg.Storage.Postgres.MaxOpenConns
			storeCfg.Postgres.MaxIdleConns = cfg.Storage.Postgres.MaxIdleConns
			storeCfg.Postgres.ConnMaxLifetime = cfg.Storage.Postgres.ConnMaxLifetime
			storeCfg.Mongo.URI = cfg.Storage.Mongo.URI
			storeCfg.Mongo.Database = cfg.Storage.Mongo.Database

			repo, err := store.Open(ctx, storeCfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(context.Background()) }()

			if err := repo.Ping(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			fmt.Println("ping: ok")

			query := "SELECT 1"
			if strings.HasPrefix(strings.ToLower(cfg.Storage.Driver), "mongo") {
				query = "ping"
			}
			if len(args) == 1 {
				query = args[0]
			}
			out, err := repo.QueryRaw(ctx, query)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}
			fmt.Printf("query %q => %v\n", query, out)
			return nil
		},
	}
	checkStore.Flags().String("config", "config.yaml", "ruta al config.yaml")
	root.AddCommand(checkStore)

	root.AddCommand(&cobra.Command{
		Use:   "hr-token",
		Short: "GET /v1/token: acuña un bearer del sistema de RRHH (requiere token)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, body, err := cl.do(http.MethodGet, "/v1/token", nil)
			if err != nil {
				return err
			}
			cl.print(st, body)
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
