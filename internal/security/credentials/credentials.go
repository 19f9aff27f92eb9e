// Package credentials agrupa las primitivas de credenciales: hash salteado
// de passwords y generación/cifrado de OTPs. Funciones puras, sin I/O más
// allá de crypto/rand.
package credentials

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/argon2"
)

type Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	KeyLen      uint32
}

var Default = Params{Memory: 64 * 1024, Time: 3, Parallelism: 1, KeyLen: 32}

const (
	saltLen = 16

	// OTPTTL es la vida útil de un código desde su emisión.
	OTPTTL = 30 * time.Minute
)

// GenerateSalt produce una sal fresca para hashing salteado, en base64.
func GenerateSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("credentials: salt: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}

// HashPassword deriva argon2id(password, salt): determinístico dados los
// mismos inputs. La sal viaja por separado (campo propio de la cuenta), no
// embebida en un PHC string, porque el OTP reutiliza la misma sal.
func HashPassword(p Params, password, salt string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("credentials: empty password")
	}
	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("credentials: bad salt: %w", err)
	}
	dk := argon2.IDKey([]byte(password), rawSalt, p.Time, p.Memory, p.Parallelism, p.KeyLen)
	return base64.RawStdEncoding.EncodeToString(dk), nil
}

// ValidatePassword recomputa el hash y compara en tiempo constante.
// Nunca se compara plaintext.
func ValidatePassword(p Params, entered, storedHash, salt string) bool {
	computed, err := HashPassword(p, entered, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// OTP es un código de un solo uso con su vencimiento.
type OTP struct {
	Code      string
	ExpiresAt time.Time
}

// GenerateOTP produce un código de exactamente 6 dígitos decimales y un
// vencimiento de ahora + 30 minutos. Valores que imprimirían con menos de
// 6 dígitos se descartan y se reintenta.
func GenerateOTP() (OTP, error) {
	for {
		n, err := rand.Int(rand.Reader, big.NewInt(1000000))
		if err != nil {
			return OTP{}, fmt.Errorf("credentials: otp: %w", err)
		}
		if n.Int64() < 100000 {
			continue
		}
		return OTP{
			Code:      fmt.Sprintf("%06d", n.Int64()),
			ExpiresAt: time.Now().UTC().Add(OTPTTL),
		}, nil
	}
}

// EncryptOTP cifra el código con la misma primitiva que los passwords.
// La "sal" del OTP es la sal de password de la cuenta; es un atajo heredado
// que se preserva por compatibilidad con los registros existentes.
func EncryptOTP(p Params, code, salt string) (string, error) {
	return HashPassword(p, code, salt)
}

// ValidateOTP compara el código ingresado contra el secreto guardado.
// El chequeo de vencimiento es responsabilidad del caller (el servicio
// colapsa mismatch y expiry en un mismo resultado externo).
func ValidateOTP(p Params, code, salt, storedSecret string) bool {
	return ValidatePassword(p, code, storedSecret, salt)
}
