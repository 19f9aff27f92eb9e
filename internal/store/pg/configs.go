package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

func (s *Store) GetIntegrationConfig(ctx context.Context, id string) (*core.IntegrationConfig, error) {
	const query = `
		SELECT id, company_id, base_url, token_url, client_id, client_secret, scope
		FROM bc_configs WHERE id = $1`
	var c core.IntegrationConfig
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CompanyID, &c.BaseURL, &c.TokenURL,
		&c.ClientID, &c.ClientSecret, &c.Scope,
	)
	if err != nil {
		return nil, normalize(err)
	}
	return &c, nil
}

func (s *Store) FirstIntegrationConfig(ctx context.Context) (*core.IntegrationConfig, error) {
	const query = `
		SELECT id, company_id, base_url, token_url, client_id, client_secret, scope
		FROM bc_configs ORDER BY id LIMIT 1`
	var c core.IntegrationConfig
	err := s.pool.QueryRow(ctx, query).Scan(
		&c.ID, &c.CompanyID, &c.BaseURL, &c.TokenURL,
		&c.ClientID, &c.ClientSecret, &c.Scope,
	)
	if err != nil {
		return nil, normalize(err)
	}
	return &c, nil
}

func (s *Store) GetAppSetup(ctx context.Context) (*core.AppSetup, error) {
	const query = `
		SELECT setup_id, company_name, config_id, created_at, updated_at
		FROM app_setup ORDER BY created_at LIMIT 1`
	var a core.AppSetup
	err := s.pool.QueryRow(ctx, query).Scan(
		&a.SetupID, &a.CompanyName, &a.ConfigID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, normalize(err)
	}
	return &a, nil
}

func (s *Store) CreateAppSetup(ctx context.Context, a *core.AppSetup) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	const query = `
		INSERT INTO app_setup (setup_id, company_name, config_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := s.pool.Exec(ctx, query, a.SetupID, a.CompanyName, a.ConfigID, a.CreatedAt, a.UpdatedAt)
	return normalize(err)
}

func (s *Store) UpdateAppSetup(ctx context.Context, setupID string, a *core.AppSetup) (*core.AppSetup, error) {
	const query = `
		UPDATE app_setup SET company_name = $2, config_id = $3, updated_at = NOW()
		WHERE setup_id = $1
		RETURNING setup_id, company_name, config_id, created_at, updated_at`
	var out core.AppSetup
	err := s.pool.QueryRow(ctx, query, setupID, a.CompanyName, a.ConfigID).Scan(
		&out.SetupID, &out.CompanyName, &out.ConfigID, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, normalize(err)
	}
	return &out, nil
}
