// Package service implementa la máquina de estados de cuentas: sign-up,
// verificación por OTP, sign-in con gate de verificación, resend, forgot y
// reset de password. Orquesta credenciales + tokens + Repository y no conoce
// ningún motor de storage.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/hirejohn/internal/email"
	jwtx "github.com/dropDatabas3/hirejohn/internal/jwt"
	"github.com/dropDatabas3/hirejohn/internal/observability/logger"
	"github.com/dropDatabas3/hirejohn/internal/security/credentials"
	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Accounts struct {
	repo      core.Repository
	issuer    *jwtx.Issuer
	sender    email.Sender
	templates *email.Templates
	params    credentials.Params

	now func() time.Time // inyectable para tests

	// OnEmailFailure se invoca cuando un envío falla (hook de métricas).
	OnEmailFailure func()
}

func NewAccounts(repo core.Repository, issuer *jwtx.Issuer, sender email.Sender) *Accounts {
	return &Accounts{
		repo:      repo,
		issuer:    issuer,
		sender:    sender,
		templates: email.NewTemplates(),
		params:    credentials.Default,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AuthResult es la respuesta común de los flujos que emiten token.
type AuthResult struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// SignInResult agrega los identificadores de perfil y el company id del
// sistema externo. Unverified marca el resultado USER_UNVERIFIED (403 con
// token para saltar directo al flujo de verificación).
type SignInResult struct {
	AuthResult
	FullName       string `json:"fullName"`
	ProfileCreated bool   `json:"profileCreated"`
	CompanyID      string `json:"companyId,omitempty"`
	Unverified     bool   `json:"-"`
}

type SignUpInput struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// normalizeEmail aplica el case-folding y trim que garantiza la unicidad
// global del email.
func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (a *Accounts) validateSignUp(in *SignUpInput) *Error {
	fields := map[string]string{}
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Email == "" {
		fields["email"] = "email is required"
	} else if !emailRE.MatchString(in.Email) {
		fields["email"] = "email is not valid"
	}
	if in.FullName == "" {
		fields["fullName"] = "fullName is required"
	}
	if len(in.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if len(fields) > 0 {
		return validation(fields)
	}
	return nil
}

// SignUp crea la cuenta en estado Unverified, manda el OTP por email y
// emite un token con verified=false. Las carreras de email duplicado
// colapsan en un único Conflict: el pre-check es una optimización de
// latencia, el árbitro final es la constraint del motor.
func (a *Accounts) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	if verr := a.validateSignUp(&in); verr != nil {
		return nil, verr
	}

	if _, err := a.repo.GetAccountByEmail(ctx, in.Email); err == nil {
		return nil, conflict("email_taken", "an account with that email already exists")
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, internal("signup: lookup", err)
	}

	salt, err := credentials.GenerateSalt()
	if err != nil {
		return nil, internal("signup: salt", err)
	}
	hash, err := credentials.HashPassword(a.params, in.Password, salt)
	if err != nil {
		return nil, internal("signup: hash", err)
	}
	otp, err := credentials.GenerateOTP()
	if err != nil {
		return nil, internal("signup: otp", err)
	}
	secret, err := credentials.EncryptOTP(a.params, otp.Code, salt)
	if err != nil {
		return nil, internal("signup: otp encrypt", err)
	}

	acc := &core.Account{
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		PasswordSalt: salt,
		OTPSecret:    secret,
		OTPExpiry:    &otp.ExpiresAt,
		Verified:     false,
	}
	if err := a.repo.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, conflict("email_taken", "an account with that email already exists")
		}
		return nil, internal("signup: create", err)
	}

	a.dispatchOTP(acc, otp.Code, false)

	token, err := a.issuer.Issue(acc.ID, acc.Email, false)
	if err != nil {
		return nil, internal("signup: issue token", err)
	}
	return &AuthResult{Token: token, Email: acc.Email, Verified: false}, nil
}

// VerifyOTP compara el código (cifrado con la sal de la cuenta) contra el
// secreto guardado. Éxito sólo si coincide Y now <= otp_expiry; cualquier
// otra combinación es InvalidOtp y no muta estado.
func (a *Accounts) VerifyOTP(ctx context.Context, emailAddr, code string) (*AuthResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	acc, err := a.repo.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, notFound("account_not_found", "no account for that email")
		}
		return nil, internal("verify: lookup", err)
	}

	if !a.otpValid(acc, code) {
		return nil, invalidOTP()
	}

	verified := true
	if _, err := a.repo.UpdateAccountByEmail(ctx, acc.Email, core.AccountUpdate{Verified: &verified}); err != nil {
		return nil, internal("verify: update", err)
	}

	token, err := a.issuer.Issue(acc.ID, acc.Email, true)
	if err != nil {
		return nil, internal("verify: issue token", err)
	}
	return &AuthResult{Token: token, Email: acc.Email, Verified: true}, nil
}

// otpValid chequea secreto y vencimiento. Internamente son distinguibles;
// hacia afuera ambos fallan igual.
func (a *Accounts) otpValid(acc *core.Account, code string) bool {
	if acc.OTPSecret == "" || acc.OTPExpiry == nil {
		return false
	}
	if a.now().After(*acc.OTPExpiry) {
		return false
	}
	return credentials.ValidateOTP(a.params, code, acc.PasswordSalt, acc.OTPSecret)
}

// SignIn valida credenciales. Email inexistente y password incorrecto
// responden idéntico (sin oráculo de existencia). Una cuenta sin verificar
// nunca llega al payload de éxito: rota OTP y devuelve el marcador
// USER_UNVERIFIED con token.
func (a *Accounts) SignIn(ctx context.Context, emailAddr, password string) (*SignInResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	acc, err := a.repo.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, unauthorized("invalid_credentials", "invalid email or password")
		}
		return nil, internal("signin: lookup", err)
	}

	if !credentials.ValidatePassword(a.params, password, acc.PasswordHash, acc.PasswordSalt) {
		return nil, unauthorized("invalid_credentials", "invalid email or password")
	}

	if !acc.Verified {
		if err := a.rotateOTP(ctx, acc, false); err != nil {
			return nil, err
		}
		token, err := a.issuer.Issue(acc.ID, acc.Email, false)
		if err != nil {
			return nil, internal("signin: issue token", err)
		}
		return &SignInResult{
			AuthResult: AuthResult{Token: token, Email: acc.Email, Verified: false},
			FullName:   acc.FullName,
			Unverified: true,
		}, nil
	}

	token, err := a.issuer.Issue(acc.ID, acc.Email, true)
	if err != nil {
		return nil, internal("signin: issue token", err)
	}

	// Company id desde la config de integración; su ausencia no bloquea el
	// sign-in.
	companyID := ""
	if cfg, err := a.repo.FirstIntegrationConfig(ctx); err == nil {
		companyID = cfg.CompanyID
	} else if !errors.Is(err, core.ErrNotFound) {
		logger.Named("service").Warn("integration config lookup failed", zap.Error(err))
	}

	return &SignInResult{
		AuthResult:     AuthResult{Token: token, Email: acc.Email, Verified: true},
		FullName:       acc.FullName,
		ProfileCreated: acc.ProfileCreated,
		CompanyID:      companyID,
	}, nil
}

// rotateOTP genera y persiste un código nuevo (el anterior queda inválido)
// y lo manda por email.
func (a *Accounts) rotateOTP(ctx context.Context, acc *core.Account, reset bool) error {
	otp, err := credentials.GenerateOTP()
	if err != nil {
		return internal("rotate otp: generate", err)
	}
	secret, err := credentials.EncryptOTP(a.params, otp.Code, acc.PasswordSalt)
	if err != nil {
		return internal("rotate otp: encrypt", err)
	}
	if _, err := a.repo.UpdateAccountByEmail(ctx, acc.Email, core.AccountUpdate{
		OTPSecret: &secret,
		OTPExpiry: &otp.ExpiresAt,
	}); err != nil {
		return internal("rotate otp: persist", err)
	}
	a.dispatchOTP(acc, otp.Code, reset)
	return nil
}

// dispatchOTP manda el código. Una falla de entrega se loguea y no voltea
// la operación: el cliente puede pedir resend.
func (a *Accounts) dispatchOTP(acc *core.Account, code string, reset bool) {
	vars := email.OTPVars{FullName: acc.FullName, Code: code, TTL: "30 minutes"}
	var err error
	if reset {
		err = email.SendReset(a.sender, a.templates, acc.Email, vars)
	} else {
		err = email.SendVerification(a.sender, a.templates, acc.Email, vars)
	}
	if err != nil {
		logger.Named("service").Warn("otp dispatch failed",
			zap.String("email", acc.Email), zap.Error(err))
		if a.OnEmailFailure != nil {
			a.OnEmailFailure()
		}
	}
}

// ResendOTP rota código y vencimiento si la cuenta existe. Si no existe,
// no-op silencioso: la respuesta es la misma para no revelar existencia.
func (a *Accounts) ResendOTP(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	acc, err := a.repo.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return internal("resend: lookup", err)
	}
	return a.rotateOTP(ctx, acc, false)
}

// ForgotPassword rota el OTP con copy de reseteo y devuelve un token atado
// a la identidad pre-reset para presentarlo luego en ResetPassword.
func (a *Accounts) ForgotPassword(ctx context.Context, emailAddr string) (*AuthResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	acc, err := a.repo.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, notFound("account_not_found", "no account for that email")
		}
		return nil, internal("forgot: lookup", err)
	}
	if err := a.rotateOTP(ctx, acc, true); err != nil {
		return nil, err
	}
	token, err := a.issuer.Issue(acc.ID, acc.Email, acc.Verified)
	if err != nil {
		return nil, internal("forgot: issue token", err)
	}
	return &AuthResult{Token: token, Email: acc.Email, Verified: acc.Verified}, nil
}

// ResetPassword reemplaza hash y sal. Es el único camino de mutación que va
// por id (findById/updateById): el id numérico es el handle durable, el
// email podría tratarse como mutable más adelante.
func (a *Accounts) ResetPassword(ctx context.Context, emailAddr, newPassword string) error {
	emailAddr = normalizeEmail(emailAddr)
	if len(newPassword) < 6 {
		return validation(map[string]string{"newPassword": "password must be at least 6 characters"})
	}
	acc, err := a.repo.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return notFound("account_not_found", "no account for that email")
		}
		return internal("reset: lookup", err)
	}
	if _, err := a.repo.GetAccountByID(ctx, acc.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return notFound("account_not_found", "no account for that id")
		}
		return internal("reset: lookup by id", err)
	}

	salt, err := credentials.GenerateSalt()
	if err != nil {
		return internal("reset: salt", err)
	}
	hash, err := credentials.HashPassword(a.params, newPassword, salt)
	if err != nil {
		return internal("reset: hash", err)
	}
	if _, err := a.repo.UpdateAccountByID(ctx, acc.ID, core.AccountUpdate{
		PasswordHash: &hash,
		PasswordSalt: &salt,
	}); err != nil {
		return internal("reset: update", err)
	}
	return nil
}

// VerifyResetOTP es la entrada separada del flujo de reset: el email viene
// en el body, no del token. En éxito también marca verified=true — hereda
// la conflación "OTP probado" / "cuenta verificada" del comportamiento
// original; no separar sin pedido explícito.
func (a *Accounts) VerifyResetOTP(ctx context.Context, emailAddr, code string) (*AuthResult, error) {
	return a.VerifyOTP(ctx, emailAddr, code)
}
