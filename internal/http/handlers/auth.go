// Package handlers expone los controllers HTTP del portal. Cada handler es
// un struct con sus dependencias y un Register(chi.Router).
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/hirejohn/internal/http"
	jwtx "github.com/dropDatabas3/hirejohn/internal/jwt"
	"github.com/dropDatabas3/hirejohn/internal/service"
)

type AuthHandler struct {
	Svc    *service.Accounts
	Issuer *jwtx.Issuer
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Post("/v1/auth/sign-up", h.signUp)
		r.Post("/v1/auth/sign-in", h.signIn)
		r.Post("/v1/auth/resend-otp", h.resendOTP)
		r.Post("/v1/auth/forgot-password", h.forgotPassword)
		r.Post("/v1/auth/verify-reset-otp", h.verifyResetOTP)
		r.Post("/v1/auth/reset-password", h.resetPassword)
	})
	// verify exige el token emitido en sign-up/sign-in: el email sale de
	// los claims, nunca del body. El flujo de reset, que por definición
	// arranca sin token, usa /verify-reset-otp con email en el body.
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Issuer))
		r.Post("/v1/auth/verify", h.verify)
	})
}

func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var in service.SignUpInput
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	res, err := h.Svc.SignUp(r.Context(), in)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.RecordOTPIssued("signup")
	httpx.WriteJSON(w, http.StatusCreated, res)
}

type otpIn struct {
	OTP string `json:"otp"`
}

func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "missing_token", "authorization header required", 1401)
		return
	}
	var in otpIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	res, err := h.Svc.VerifyOTP(r.Context(), claims.Email, in.OTP)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

type signInIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// unverifiedPayload es el cuerpo del 403 USER_UNVERIFIED: lleva token para
// que el frontend salte directo a la pantalla de verificación.
type unverifiedPayload struct {
	Code             string `json:"code"`
	ErrorDescription string `json:"error_description"`
	Token            string `json:"token"`
	Email            string `json:"email"`
	Verified         bool   `json:"verified"`
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var in signInIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	res, err := h.Svc.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		httpx.RecordSignIn("rejected")
		httpx.WriteServiceError(w, err)
		return
	}
	if res.Unverified {
		httpx.RecordSignIn("unverified")
		httpx.RecordOTPIssued("signin_unverified")
		httpx.WriteJSON(w, http.StatusForbidden, unverifiedPayload{
			Code:             "USER_UNVERIFIED",
			ErrorDescription: "account pending verification, a new code was sent",
			Token:            res.Token,
			Email:            res.Email,
			Verified:         false,
		})
		return
	}
	httpx.RecordSignIn("ok")
	httpx.WriteJSON(w, http.StatusOK, res)
}

type emailIn struct {
	Email string `json:"email"`
}

func (h *AuthHandler) resendOTP(w http.ResponseWriter, r *http.Request) {
	var in emailIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	if err := h.Svc.ResendOTP(r.Context(), in.Email); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	// Misma respuesta exista o no la cuenta.
	httpx.RecordOTPIssued("resend")
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "a new code was sent"})
}

func (h *AuthHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var in emailIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	res, err := h.Svc.ForgotPassword(r.Context(), in.Email)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.RecordOTPIssued("reset")
	httpx.WriteJSON(w, http.StatusOK, struct {
		*service.AuthResult
		Message string `json:"message"`
	}{res, "a password reset code was sent"})
}

type resetVerifyIn struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *AuthHandler) verifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var in resetVerifyIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	res, err := h.Svc.VerifyResetOTP(r.Context(), in.Email, in.OTP)
	if err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

type resetIn struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in resetIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	if err := h.Svc.ResetPassword(r.Context(), in.Email, in.NewPassword); err != nil {
		httpx.WriteServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
