package jwt

import (
	"net/http"
	"strings"
)

// FromRequest extrae el token crudo del header Authorization: recorta
// comillas envolventes (algunos clientes mandan el token citado) y el
// prefijo de esquema "Bearer". Devuelve "" si no hay header.
func FromRequest(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	raw = strings.Trim(raw, `"'`)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = raw[7:]
	}
	return strings.Trim(strings.TrimSpace(raw), `"'`)
}
