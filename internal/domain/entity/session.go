package entity

import (
	"strings"
	"time"
)

// Session sesión del vendedor: token bearer opaco + email para mostrar.
// Se crea en el login y se destruye en el logout.
type Session struct {
	Token string
	Email string
}

// SessionInfo datos de la sesión para la cabecera de las páginas.
type SessionInfo struct {
	LoggedIn    bool
	Email       string
	DisplayName string    // parte local del email ("ana" para ana@tienda.in)
	Subject     string    // claim sub del token si es un JWT
	ExpiresAt   time.Time // solo informativo, no se usa para expirar la sesión
}

// DisplayNameFromEmail devuelve la parte local del email.
func DisplayNameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
