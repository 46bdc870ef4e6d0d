package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/dayhom/profit-dashboard/internal/application/dto"
	"github.com/dayhom/profit-dashboard/internal/application/ports"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
	"github.com/dayhom/profit-dashboard/internal/domain/repository"
	"github.com/dayhom/profit-dashboard/pkg/jwt"
	"github.com/dayhom/profit-dashboard/pkg/logger"
)

const minPasswordLen = 6

// AuthUseCase casos de uso de autenticación: registro, login, logout y sesión.
// El token lo emite el backend; aquí solo se guarda en el SessionRepository.
type AuthUseCase struct {
	api      ports.AuthAPI
	sessions repository.SessionRepository
	log      *logger.Logger

	mu       sync.Mutex
	onLogout []func() error
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(api ports.AuthAPI, sessions repository.SessionRepository, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{api: api, sessions: sessions, log: log.Component("auth")}
}

// Register valida el formulario localmente (sin red) y registra la cuenta.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) error {
	email := strings.TrimSpace(in.Email)
	switch {
	case email == "" || in.Password == "" || in.ConfirmPassword == "":
		return domain.NewValidationError("completa todos los campos")
	case !validEmail(email):
		return domain.NewValidationError("el email no es válido")
	case in.Password != in.ConfirmPassword:
		return domain.NewValidationError("las contraseñas no coinciden")
	case len(in.Password) < minPasswordLen:
		return domain.NewValidationError(fmt.Sprintf("la contraseña debe tener al menos %d caracteres", minPasswordLen))
	}
	if err := uc.api.Register(ctx, email, in.Password); err != nil {
		return err
	}
	uc.log.Info().Str("email", email).Msg("cuenta registrada")
	return nil
}

// Login autentica contra el backend y guarda token + email. Una respuesta sin token es
// un error del servidor.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) error {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return domain.NewValidationError("email y contraseña son obligatorios")
	}
	token, err := uc.api.Login(ctx, email, in.Password)
	if err != nil {
		return err
	}
	if token == "" {
		return &domain.APIError{Kind: domain.KindServer, Message: "respuesta inválida del servidor", Raw: "login sin token"}
	}
	if err := uc.sessions.SetToken(token); err != nil {
		return fmt.Errorf("auth: guardar token: %w", err)
	}
	if err := uc.sessions.SetEmail(email); err != nil {
		return fmt.Errorf("auth: guardar email: %w", err)
	}
	uc.log.Info().Str("email", email).Msg("sesión iniciada")
	return nil
}

// OnLogout registra una limpieza que corre en cada Logout, después de borrar el token.
// El estado ligado a la cuenta (asistente, último reporte) no debe sobrevivir a la sesión.
func (uc *AuthUseCase) OnLogout(fn func() error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.onLogout = append(uc.onLogout, fn)
}

// Logout borra token y email y ejecuta las limpiezas registradas. Todas corren aunque
// alguna falle; los errores se devuelven juntos.
func (uc *AuthUseCase) Logout() error {
	if err := uc.sessions.Logout(); err != nil {
		return fmt.Errorf("auth: cerrar sesión: %w", err)
	}
	uc.mu.Lock()
	hooks := append([]func() error(nil), uc.onLogout...)
	uc.mu.Unlock()

	var errs []error
	for _, fn := range hooks {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("auth: limpiar sesión: %w", err)
	}
	uc.log.Info().Msg("sesión cerrada")
	return nil
}

// IsLoggedIn true si hay token.
func (uc *AuthUseCase) IsLoggedIn() bool { return uc.sessions.IsLoggedIn() }

// Session datos de la sesión para mostrar. Si el token es un JWT se leen sub/exp sin
// verificar la firma; un token opaco es igual de válido.
func (uc *AuthUseCase) Session() entity.SessionInfo {
	token, ok := uc.sessions.GetToken()
	if !ok {
		return entity.SessionInfo{}
	}
	email := uc.sessions.Email()
	info := entity.SessionInfo{LoggedIn: true, Email: email}
	if ti, err := jwt.Inspect(token); err == nil {
		info.Subject = ti.Subject
		info.ExpiresAt = ti.ExpiresAt
		if info.Email == "" {
			info.Email = ti.Email
		}
	}
	info.DisplayName = entity.DisplayNameFromEmail(info.Email)
	return info
}

// Health diagnóstico del backend (timeout corto).
func (uc *AuthUseCase) Health(ctx context.Context) (*ports.HealthStatus, error) {
	return uc.api.CheckHealth(ctx)
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
