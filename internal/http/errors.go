package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dropDatabas3/hirejohn/internal/service"
)

type apiError struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description,omitempty"`
	ErrorCode        int               `json:"error_code,omitempty"`
	Fields           map[string]string `json:"fields,omitempty"`
	RequestID        string            `json:"request_id,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, desc string, errCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rid := w.Header().Get("X-Request-ID")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{
		Error:            code,
		ErrorDescription: desc,
		ErrorCode:        errCode,
		RequestID:        rid,
	})
}

// WriteJSON: respuesta JSON estándar
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteServiceError traduce el taxon de errores del servicio a HTTP. El
// detalle interno de KindInternal nunca viaja al cliente.
func WriteServiceError(w http.ResponseWriter, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		WriteError(w, http.StatusInternalServerError, "internal_error", "unexpected error", 1500)
		return
	}

	switch se.Kind {
	case service.KindValidation:
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		rid := w.Header().Get("X-Request-ID")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(apiError{
			Error:            se.Code,
			ErrorDescription: se.Detail,
			ErrorCode:        1400,
			Fields:           se.Fields,
			RequestID:        rid,
		})
	case service.KindConflict:
		// El contrato del API trata el conflicto (email tomado, perfil ya
		// creado) como un 400 más, no como 409.
		WriteError(w, http.StatusBadRequest, se.Code, se.Detail, 1409)
	case service.KindUnauthorized:
		WriteError(w, http.StatusUnauthorized, se.Code, se.Detail, 1401)
	case service.KindNotFound:
		WriteError(w, http.StatusNotFound, se.Code, se.Detail, 1404)
	case service.KindInvalidOTP:
		WriteError(w, http.StatusBadRequest, se.Code, se.Detail, 1420)
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "unexpected error", 1500)
	}
}

// ReadJSON: decodifica JSON de forma tolerante (NO falla por campos desconocidos).
// Valida Content-Type y limita el tamaño del body a 1MB.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		WriteError(w, http.StatusBadRequest, "invalid_json", "Content-Type debe ser application/json", 1102)
		return false
	}
	// máx 1MB
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "invalid_json", "json inválido", 1102)
		return false
	}
	return true
}
