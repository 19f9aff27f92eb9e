// Package storetest es la suite de conformidad de core.Repository: ambos
// motores corren exactamente los mismos casos sobre la misma fixture, así
// cualquier divergencia de semántica entre adapters aparece como un fallo
// simétrico y no como un bug de producción.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

// Run ejerce el contrato completo contra un repo vivo. Los fixtures usan
// ids únicos por corrida para tolerar bases sucias entre ejecuciones.
func Run(t *testing.T, repo core.Repository) {
	ctx := context.Background()
	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, repo.Ping(ctx))
	})
	t.Run("Accounts", func(t *testing.T) { runAccounts(ctx, t, repo) })
	t.Run("Profiles", func(t *testing.T) { runProfiles(ctx, t, repo) })
	t.Run("AppSetup", func(t *testing.T) { runAppSetup(ctx, t, repo) })
	t.Run("IntegrationConfigs", func(t *testing.T) { runConfigs(ctx, t, repo) })
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@parity.test", prefix, uuid.NewString()[:8])
}

func runAccounts(ctx context.Context, t *testing.T, repo core.Repository) {
	email := uniqueEmail("acc")

	_, err := repo.GetAccountByEmail(ctx, email)
	require.ErrorIs(t, err, core.ErrNotFound)

	expiry := time.Now().UTC().Add(30 * time.Minute)
	acc := &core.Account{
		Email:        email,
		FullName:     "Parity Probe",
		PasswordHash: "hash-1",
		PasswordSalt: "salt-1",
		OTPSecret:    "secret-1",
		OTPExpiry:    &expiry,
	}
	require.NoError(t, repo.CreateAccount(ctx, acc))
	require.Greater(t, acc.ID, int64(0))
	require.False(t, acc.CreatedAt.IsZero())
	require.False(t, acc.UpdatedAt.IsZero())

	got, err := repo.GetAccountByEmail(ctx, email)
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)
	require.Equal(t, "Parity Probe", got.FullName)
	require.Equal(t, "hash-1", got.PasswordHash)
	require.Equal(t, "salt-1", got.PasswordSalt)
	require.Equal(t, "secret-1", got.OTPSecret)
	require.False(t, got.Verified)
	require.NotNil(t, got.OTPExpiry)
	// La precisión temporal difiere por motor (µs vs ms); alcanza cercanía.
	require.WithinDuration(t, expiry, *got.OTPExpiry, time.Second)

	err = repo.CreateAccount(ctx, &core.Account{
		Email: email, FullName: "Mirror", PasswordHash: "x", PasswordSalt: "y",
	})
	require.ErrorIs(t, err, core.ErrConflict)

	other := &core.Account{
		Email: uniqueEmail("acc2"), FullName: "B", PasswordHash: "h", PasswordSalt: "s",
	}
	require.NoError(t, repo.CreateAccount(ctx, other))
	require.NotEqual(t, acc.ID, other.ID)

	verified := true
	upd, err := repo.UpdateAccountByEmail(ctx, email, core.AccountUpdate{
		Verified:       &verified,
		ClearOTPExpiry: true,
	})
	require.NoError(t, err)
	require.True(t, upd.Verified)
	require.Nil(t, upd.OTPExpiry)

	byID, err := repo.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.Equal(t, email, byID.Email)
	require.True(t, byID.Verified)
	require.Nil(t, byID.OTPExpiry)

	_, err = repo.UpdateAccountByEmail(ctx, uniqueEmail("ghost"), core.AccountUpdate{Verified: &verified})
	require.ErrorIs(t, err, core.ErrNotFound)

	rt := "reset-token"
	rexp := time.Now().UTC().Add(time.Hour)
	upd, err = repo.UpdateAccountByID(ctx, acc.ID, core.AccountUpdate{
		ResetToken:  &rt,
		ResetExpiry: &rexp,
	})
	require.NoError(t, err)
	require.NotNil(t, upd.ResetToken)
	require.Equal(t, rt, *upd.ResetToken)

	upd, err = repo.UpdateAccountByID(ctx, acc.ID, core.AccountUpdate{ClearResetToken: true})
	require.NoError(t, err)
	require.Nil(t, upd.ResetToken)
}

func runProfiles(ctx context.Context, t *testing.T, repo core.Repository) {
	email := uniqueEmail("prof")

	_, err := repo.GetProfileByEmail(ctx, email)
	require.ErrorIs(t, err, core.ErrNotFound)

	p := &core.Profile{
		Email:     email,
		FirstName: "Ana",
		LastName:  "Bo",
		Phone:     "123",
		Country:   "AR",
	}
	require.NoError(t, repo.CreateProfile(ctx, p))
	require.ErrorIs(t, repo.CreateProfile(ctx, p), core.ErrConflict)

	got, err := repo.GetProfileByEmail(ctx, email)
	require.NoError(t, err)
	require.Equal(t, "Ana", got.FirstName)
	require.Equal(t, "123", got.Phone)
	require.False(t, got.LastModified.IsZero())

	got.Phone = "456"
	upd, err := repo.UpdateProfileByEmail(ctx, email, got)
	require.NoError(t, err)
	require.Equal(t, "456", upd.Phone)
	require.Equal(t, email, upd.Email)

	_, err = repo.UpdateProfileByEmail(ctx, uniqueEmail("ghost"), got)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func runAppSetup(ctx context.Context, t *testing.T, repo core.Repository) {
	s := &core.AppSetup{
		SetupID:     uuid.NewString(),
		CompanyName: "ACME",
		ConfigID:    "default",
	}
	require.NoError(t, repo.CreateAppSetup(ctx, s))

	got, err := repo.GetAppSetup(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, got.SetupID)

	s.CompanyName = "ACME v2"
	upd, err := repo.UpdateAppSetup(ctx, s.SetupID, s)
	require.NoError(t, err)
	require.Equal(t, "ACME v2", upd.CompanyName)
	require.Equal(t, s.SetupID, upd.SetupID)

	_, err = repo.UpdateAppSetup(ctx, uuid.NewString(), s)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func runConfigs(ctx context.Context, t *testing.T, repo core.Repository) {
	// bc_configs es read-only desde el contrato; sólo el camino "no existe"
	// es verificable sin sembrar datos por fuera del Repository.
	_, err := repo.GetIntegrationConfig(ctx, uuid.NewString())
	require.ErrorIs(t, err, core.ErrNotFound)
}
