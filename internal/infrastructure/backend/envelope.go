package backend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dayhom/profit-dashboard/internal/domain"
)

// unwrapData devuelve el contenido de "data" si body es un objeto {data: ...} no nulo.
// Algunas versiones del backend envuelven la respuesta y otras no.
func unwrapData(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return trimmed
	}
	data, ok := env["data"]
	if !ok || string(bytes.TrimSpace(data)) == "null" {
		return trimmed
	}
	return data
}

// errorBody formas conocidas de error del backend.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

// statusError normaliza una respuesta no-2xx.
func statusError(status int, body []byte) *domain.APIError {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		raw = http.StatusText(status)
	}
	var eb errorBody
	msg := ""
	if json.Unmarshal(body, &eb) == nil {
		switch {
		case eb.Message != "":
			msg = eb.Message
		case eb.Detail != "":
			msg = eb.Detail
		case eb.Error != "" && eb.Error != http.StatusText(status):
			msg = eb.Error
		}
	}
	e := &domain.APIError{
		Kind:    domain.KindForStatus(status),
		Status:  status,
		Message: msg,
		Raw:     raw,
	}
	if e.Kind == domain.KindAuth {
		e.Err = domain.ErrUnauthorized
	}
	return e
}
