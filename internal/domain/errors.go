package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrNoSession         = errors.New("no hay sesión activa")
	ErrInvalidTransition = errors.New("paso del asistente no permitido")
	ErrBusy              = errors.New("hay una operación en curso")
	ErrStale             = errors.New("respuesta descartada: el asistente cambió de estado")
	ErrNoReport          = errors.New("no hay reporte disponible")
)

// ErrorKind clasifica los fallos del backend para la capa de presentación.
type ErrorKind string

const (
	KindConnectivity ErrorKind = "ConnectivityError" // backend inalcanzable o timeout
	KindAuth         ErrorKind = "AuthError"         // 401 / 403
	KindValidation   ErrorKind = "ValidationError"   // 400, datos o archivo mal formados
	KindNotFound     ErrorKind = "NotFoundError"     // 404
	KindServer       ErrorKind = "ServerError"       // 5xx o respuesta inesperada
)

// APIError error normalizado {kind, message, status} que propagan los clientes de servicio.
// Status es 0 cuando no hubo respuesta HTTP (errores de conectividad).
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string // mensaje del backend si lo hubo
	Raw     string // mensaje crudo (error de red o cuerpo sin formato)
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Raw
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewValidationError construye un error de validación local (sin llamada de red).
func NewValidationError(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Err: ErrInvalidInput}
}

// KindForStatus mapea un código HTTP no-2xx a su categoría.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindValidation
	default:
		return KindServer
	}
}

// KindOf devuelve la categoría de err (también si viene envuelto).
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTransition):
		return KindValidation, true
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNoSession):
		return KindAuth, true
	}
	return "", false
}

// IsAuth indica si err debe terminar la sesión y llevar al login.
func IsAuth(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindAuth
}

// UserMessage texto para el banner de error de la interfaz. Un único punto de traducción
// de la taxonomía a mensajes visibles.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindConnectivity:
			return "No se pudo conectar con el servidor. Verifica tu conexión e intenta de nuevo."
		case KindAuth:
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return "Sesión inválida o expirada. Inicia sesión de nuevo."
		case KindValidation:
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return "Los datos enviados no son válidos."
		case KindNotFound:
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return "El recurso solicitado no existe."
		default:
			if apiErr.Message != "" {
				return "Error del servidor: " + apiErr.Message
			}
			return "Error del servidor. Intenta más tarde."
		}
	}
	switch {
	case errors.Is(err, ErrBusy):
		return "Espera a que termine la operación en curso."
	case errors.Is(err, ErrInvalidTransition):
		return "Ese paso no está disponible ahora."
	case errors.Is(err, ErrNoSession), errors.Is(err, ErrUnauthorized):
		return "Inicia sesión para continuar."
	case errors.Is(err, ErrNoReport):
		return "Todavía no hay un reporte generado."
	case errors.Is(err, ErrStale):
		return "La operación quedó obsoleta porque el asistente se reinició."
	}
	return "Ocurrió un error inesperado."
}
