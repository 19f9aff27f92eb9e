package core

import "context"

// Repository es el contrato que ambos motores (relacional y documental)
// deben cumplir. La lógica de negocio depende sólo de esta interfaz; la
// sintaxis de queries de cada motor no sale de su paquete adapter.
//
// Convenciones:
//   - "no existe" en lookups => ErrNotFound (nunca un error del driver)
//   - email duplicado en CreateAccount => ErrConflict
//   - cualquier otra falla => error normalizado/envuelto
type Repository interface {
	// Diagnóstico
	Ping(ctx context.Context) error
	QueryRaw(ctx context.Context, query string) (any, error)

	// Accounts (recruitment_user)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
	// CreateAccount asigna el id numérico y completa CreatedAt/UpdatedAt.
	CreateAccount(ctx context.Context, a *Account) error
	UpdateAccountByEmail(ctx context.Context, email string, upd AccountUpdate) (*Account, error)
	UpdateAccountByID(ctx context.Context, id int64, upd AccountUpdate) (*Account, error)

	// Applicant profiles (1:1 por email)
	GetProfileByEmail(ctx context.Context, email string) (*Profile, error)
	CreateProfile(ctx context.Context, p *Profile) error
	UpdateProfileByEmail(ctx context.Context, email string, p *Profile) (*Profile, error)

	// Integration configs (read-only)
	GetIntegrationConfig(ctx context.Context, id string) (*IntegrationConfig, error)
	FirstIntegrationConfig(ctx context.Context) (*IntegrationConfig, error)

	// App setup
	GetAppSetup(ctx context.Context) (*AppSetup, error)
	CreateAppSetup(ctx context.Context, s *AppSetup) error
	UpdateAppSetup(ctx context.Context, setupID string, s *AppSetup) (*AppSetup, error)

	Close(ctx context.Context) error
}
