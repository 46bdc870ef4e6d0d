package repository

// SessionRepository define el puerto del Token Store: token bearer + email de la sesión.
// Una única instancia por proceso, inyectada en quien la necesite.
type SessionRepository interface {
	SetToken(token string) error
	GetToken() (string, bool)
	IsLoggedIn() bool
	SetEmail(email string) error
	Email() string
	// Logout borra el token y el email cacheado.
	Logout() error
}
