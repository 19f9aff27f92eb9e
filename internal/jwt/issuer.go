// Package jwt emite y valida los bearer tokens del portal: claims compactos
// (id, email, verified) firmados HS256 con secreto compartido y vencimiento
// fijo.
package jwt

import (
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// DefaultTTL es la vida del token. Heredada del comportamiento actual.
const DefaultTTL = 90 * 24 * time.Hour

// Claims son los claims propios del portal más los registrados.
type Claims struct {
	UserID   int64  `json:"id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
	jwtv5.RegisteredClaims
}

type Issuer struct {
	Secret []byte
	Iss    string
	TTL    time.Duration
}

func NewIssuer(secret []byte, iss string) *Issuer {
	return &Issuer{Secret: secret, Iss: iss, TTL: DefaultTTL}
}

// Issue firma un token con los claims dados y el TTL fijo del issuer.
func (i *Issuer) Issue(userID int64, email string, verified bool) (string, error) {
	if len(i.Secret) == 0 {
		return "", fmt.Errorf("jwt: empty signing secret")
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID:   userID,
		Email:    email,
		Verified: verified,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(i.TTL)),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tk.SignedString(i.Secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// Verify valida firma y vencimiento. Cualquier falla (token vacío, firma
// inválida, expirado, alg inesperado) devuelve (nil, false): ningún error
// cruza este límite.
func (i *Issuer) Verify(raw string) (*Claims, bool) {
	if raw == "" {
		return nil, false
	}
	var claims Claims
	tk, err := jwtv5.ParseWithClaims(raw, &claims, func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.Secret, nil
	})
	if err != nil || !tk.Valid {
		return nil, false
	}
	return &claims, true
}
