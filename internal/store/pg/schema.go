package pg

import "context"

// ensureSchema aplica el esquema mínimo de forma idempotente en el arranque.
// El DDL canónico vive también en migrations/postgres para entornos donde el
// usuario de la app no tiene permisos de DDL.
func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS recruitment_user (
	id              BIGSERIAL PRIMARY KEY,
	email           TEXT NOT NULL UNIQUE,
	full_name       TEXT NOT NULL DEFAULT '',
	password_hash   TEXT NOT NULL,
	password_salt   TEXT NOT NULL,
	otp_secret      TEXT NOT NULL DEFAULT '',
	otp_expiry      TIMESTAMPTZ,
	verified        BOOLEAN NOT NULL DEFAULT FALSE,
	profile_created BOOLEAN NOT NULL DEFAULT FALSE,
	reset_token     TEXT,
	reset_expiry    TIMESTAMPTZ,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS applicant_profile (
	email           TEXT PRIMARY KEY,
	first_name      TEXT NOT NULL DEFAULT '',
	middle_name     TEXT NOT NULL DEFAULT '',
	last_name       TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	birth_date      TEXT NOT NULL DEFAULT '',
	birth_place     TEXT NOT NULL DEFAULT '',
	national_id     TEXT NOT NULL DEFAULT '',
	tax_id          TEXT NOT NULL DEFAULT '',
	marital_status  TEXT NOT NULL DEFAULT '',
	address         TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	country         TEXT NOT NULL DEFAULT '',
	relative_in_org BOOLEAN NOT NULL DEFAULT FALSE,
	last_modified   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bc_configs (
	id            TEXT PRIMARY KEY,
	company_id    TEXT NOT NULL DEFAULT '',
	base_url      TEXT NOT NULL DEFAULT '',
	token_url     TEXT NOT NULL DEFAULT '',
	client_id     TEXT NOT NULL DEFAULT '',
	client_secret TEXT NOT NULL DEFAULT '',
	scope         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS app_setup (
	setup_id     TEXT PRIMARY KEY,
	company_name TEXT NOT NULL DEFAULT '',
	config_id    TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return normalize(err)
	}
	return nil
}
