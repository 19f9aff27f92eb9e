package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

const accountColumns = `id, email, full_name, password_hash, password_salt,
	otp_secret, otp_expiry, verified, profile_created, reset_token,
	reset_expiry, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*core.Account, error) {
	var a core.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.PasswordSalt,
		&a.OTPSecret, &a.OTPExpiry, &a.Verified, &a.ProfileCreated,
		&a.ResetToken, &a.ResetExpiry, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, normalize(err)
	}
	return &a, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*core.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM recruitment_user WHERE email = $1`
	return scanAccount(s.pool.QueryRow(ctx, query, email))
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*core.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM recruitment_user WHERE id = $1`
	return scanAccount(s.pool.QueryRow(ctx, query, id))
}

// CreateAccount inserta y deja que el motor asigne el id (BIGSERIAL) y los
// timestamps. Email duplicado => core.ErrConflict vía 23505; la constraint
// del motor es el árbitro final ante inserts concurrentes.
func (s *Store) CreateAccount(ctx context.Context, a *core.Account) error {
	const query = `
		INSERT INTO recruitment_user
			(email, full_name, password_hash, password_salt, otp_secret, otp_expiry, verified, profile_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := s.pool.QueryRow(ctx, query,
		a.Email, a.FullName, a.PasswordHash, a.PasswordSalt,
		a.OTPSecret, a.OTPExpiry, a.Verified, a.ProfileCreated,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return normalize(err)
}

func (s *Store) UpdateAccountByEmail(ctx context.Context, email string, upd core.AccountUpdate) (*core.Account, error) {
	return s.updateAccount(ctx, "email", email, upd)
}

func (s *Store) UpdateAccountByID(ctx context.Context, id int64, upd core.AccountUpdate) (*core.Account, error) {
	return s.updateAccount(ctx, "id", id, upd)
}

// updateAccount arma el SET dinámicamente a partir de los campos no-nil.
func (s *Store) updateAccount(ctx context.Context, keyCol string, keyVal any, upd core.AccountUpdate) (*core.Account, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{keyVal}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.FullName != nil {
		add("full_name", *upd.FullName)
	}
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	if upd.PasswordSalt != nil {
		add("password_salt", *upd.PasswordSalt)
	}
	if upd.OTPSecret != nil {
		add("otp_secret", *upd.OTPSecret)
	}
	if upd.OTPExpiry != nil {
		add("otp_expiry", *upd.OTPExpiry)
	} else if upd.ClearOTPExpiry {
		sets = append(sets, "otp_expiry = NULL")
	}
	if upd.Verified != nil {
		add("verified", *upd.Verified)
	}
	if upd.ProfileCreated != nil {
		add("profile_created", *upd.ProfileCreated)
	}
	if upd.ResetToken != nil {
		add("reset_token", *upd.ResetToken)
	} else if upd.ClearResetToken {
		sets = append(sets, "reset_token = NULL", "reset_expiry = NULL")
	}
	if upd.ResetExpiry != nil {
		add("reset_expiry", *upd.ResetExpiry)
	}

	query := fmt.Sprintf(
		`UPDATE recruitment_user SET %s WHERE %s = $1 RETURNING %s`,
		strings.Join(sets, ", "), keyCol, accountColumns,
	)
	return scanAccount(s.pool.QueryRow(ctx, query, args...))
}
