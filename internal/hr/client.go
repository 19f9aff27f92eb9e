// Package hr habla con el sistema externo de RRHH (OData). Por ahora lo
// único que necesita el portal es acuñar tokens bearer vía client
// credentials y reexponerlos al frontend.
package hr

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dropDatabas3/hirejohn/internal/observability/logger"
	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

// expiryLeeway descuenta del vencimiento real para no entregar tokens a
// punto de caducar.
const expiryLeeway = 30 * time.Second

var ErrNoConfig = errors.New("hr: no integration config available")

// Token es la forma que viaja al frontend.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Client struct {
	repo  core.Repository
	cache *gocache.Cache

	// mint se puede reemplazar en tests para no pegarle a la red.
	mint func(ctx context.Context, cfg *core.IntegrationConfig) (*oauth2.Token, error)
}

func NewClient(repo core.Repository) *Client {
	return &Client{
		repo:  repo,
		cache: gocache.New(5*time.Minute, time.Minute),
		mint:  mintClientCredentials,
	}
}

func mintClientCredentials(ctx context.Context, cfg *core.IntegrationConfig) (*oauth2.Token, error) {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	if cfg.Scope != "" {
		cc.Scopes = []string{cfg.Scope}
	}
	return cc.Token(ctx)
}

// MintToken devuelve un bearer token del sistema externo, cacheado por
// config hasta su vencimiento. configID vacío usa la primera config.
func (c *Client) MintToken(ctx context.Context, configID string) (*Token, error) {
	cfg, err := c.lookupConfig(ctx, configID)
	if err != nil {
		return nil, err
	}

	key := "hr-token:" + cfg.ID
	if v, ok := c.cache.Get(key); ok {
		if tok, ok := v.(*Token); ok {
			return tok, nil
		}
	}

	raw, err := c.mint(ctx, cfg)
	if err != nil {
		logger.Named("hr").Warn("token mint failed",
			zap.String("config", cfg.ID), zap.Error(err))
		return nil, err
	}

	tok := &Token{
		AccessToken: raw.AccessToken,
		TokenType:   raw.TokenType,
		ExpiresAt:   raw.Expiry,
	}
	if tok.TokenType == "" {
		tok.TokenType = "Bearer"
	}
	if ttl := time.Until(raw.Expiry) - expiryLeeway; ttl > 0 {
		c.cache.Set(key, tok, ttl)
	}
	return tok, nil
}

func (c *Client) lookupConfig(ctx context.Context, configID string) (*core.IntegrationConfig, error) {
	if configID != "" {
		cfg, err := c.repo.GetIntegrationConfig(ctx, configID)
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrNoConfig
		}
		return cfg, err
	}
	cfg, err := c.repo.FirstIntegrationConfig(ctx)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrNoConfig
	}
	return cfg, err
}
