package service

import "fmt"

// Kind clasifica las fallas del servicio independientemente del motor de
// storage. La capa HTTP mapea Kind a status; el detalle de Internal sólo va
// al log del servidor, nunca al caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindNotFound
	KindInvalidOTP
)

type Error struct {
	Kind   Kind
	Code   string            // código estable para el cliente ("email_taken", ...)
	Detail string            // descripción segura para el caller
	Fields map[string]string // mensajes por campo (sólo Validation)
	err    error             // causa interna, sólo para logs
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.err }

// KindOf devuelve el Kind de un error del servicio; todo lo demás es Internal.
func KindOf(err error) Kind {
	if se, ok := err.(*Error); ok {
		return se.Kind
	}
	return KindInternal
}

func validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: "validation_failed", Detail: "invalid request body", Fields: fields}
}

func conflict(code, detail string) *Error {
	return &Error{Kind: KindConflict, Code: code, Detail: detail}
}

func unauthorized(code, detail string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Detail: detail}
}

func notFound(code, detail string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Detail: detail}
}

func invalidOTP() *Error {
	// Mismatch y expiry colapsan en este único resultado para no filtrar
	// información de timing sobre la vida del OTP.
	return &Error{Kind: KindInvalidOTP, Code: "invalid_otp", Detail: "invalid or expired code"}
}

func internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Detail: "internal error", err: fmt.Errorf("%s: %w", op, err)}
}
