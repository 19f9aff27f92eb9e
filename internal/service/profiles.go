package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

// GetProfile devuelve la biodata del postulante. Ausencia => NotFound, que
// el cliente trata como estado normal hasta que el perfil se crea.
func (a *Accounts) GetProfile(ctx context.Context, emailAddr string) (*core.Profile, error) {
	emailAddr = normalizeEmail(emailAddr)
	p, err := a.repo.GetProfileByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, notFound("profile_not_found", "no profile for that account yet")
		}
		return nil, internal("profile: lookup", err)
	}
	return p, nil
}

// CreateProfile inserta la biodata (una vez por cuenta) y marca
// profile_created en la cuenta.
func (a *Accounts) CreateProfile(ctx context.Context, emailAddr string, p *core.Profile) (*core.Profile, error) {
	emailAddr = normalizeEmail(emailAddr)
	if verr := validateProfile(p); verr != nil {
		return nil, verr
	}
	p.Email = emailAddr

	if err := a.repo.CreateProfile(ctx, p); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, conflict("profile_exists", "profile already created; use update")
		}
		return nil, internal("profile: create", err)
	}

	created := true
	if _, err := a.repo.UpdateAccountByEmail(ctx, emailAddr, core.AccountUpdate{ProfileCreated: &created}); err != nil {
		return nil, internal("profile: flag account", err)
	}
	return p, nil
}

// UpdateProfile sobreescribe la biodata in place.
func (a *Accounts) UpdateProfile(ctx context.Context, emailAddr string, p *core.Profile) (*core.Profile, error) {
	emailAddr = normalizeEmail(emailAddr)
	if verr := validateProfile(p); verr != nil {
		return nil, verr
	}
	out, err := a.repo.UpdateProfileByEmail(ctx, emailAddr, p)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, notFound("profile_not_found", "no profile for that account yet")
		}
		return nil, internal("profile: update", err)
	}
	return out, nil
}

func validateProfile(p *core.Profile) *Error {
	fields := map[string]string{}
	if strings.TrimSpace(p.FirstName) == "" {
		fields["firstName"] = "firstName is required"
	}
	if strings.TrimSpace(p.LastName) == "" {
		fields["lastName"] = "lastName is required"
	}
	if len(fields) > 0 {
		return validation(fields)
	}
	return nil
}
