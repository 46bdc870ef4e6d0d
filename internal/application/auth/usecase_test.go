package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayhom/profit-dashboard/internal/application/auth"
	"github.com/dayhom/profit-dashboard/internal/application/dto"
	"github.com/dayhom/profit-dashboard/internal/application/ports"
	"github.com/dayhom/profit-dashboard/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeAuthAPI struct {
	token         string
	loginErr      error
	registerCalls int
}

func (f *fakeAuthAPI) Register(context.Context, string, string) error {
	f.registerCalls++
	return nil
}

func (f *fakeAuthAPI) Login(context.Context, string, string) (string, error) {
	return f.token, f.loginErr
}

func (f *fakeAuthAPI) CheckHealth(context.Context) (*ports.HealthStatus, error) {
	return &ports.HealthStatus{Status: "ok"}, nil
}

type memSessions struct {
	token, email string
}

func (m *memSessions) SetToken(t string) error  { m.token = t; return nil }
func (m *memSessions) GetToken() (string, bool) { return m.token, m.token != "" }
func (m *memSessions) IsLoggedIn() bool         { return m.token != "" }
func (m *memSessions) SetEmail(e string) error  { m.email = e; return nil }
func (m *memSessions) Email() string            { return m.email }
func (m *memSessions) Logout() error            { m.token, m.email = "", ""; return nil }

func assertValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindValidation, kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_ValidacionLocal(t *testing.T) {
	api := &fakeAuthAPI{}
	uc := auth.NewAuthUseCase(api, &memSessions{}, nil)
	ctx := context.Background()

	assertValidation(t, uc.Register(ctx, dto.RegisterRequest{Email: "a@b.in"}))
	assertValidation(t, uc.Register(ctx, dto.RegisterRequest{Email: "no-es-email", Password: "123456", ConfirmPassword: "123456"}))
	assertValidation(t, uc.Register(ctx, dto.RegisterRequest{Email: "a@b.in", Password: "123456", ConfirmPassword: "654321"}))
	assertValidation(t, uc.Register(ctx, dto.RegisterRequest{Email: "a@b.in", Password: "123", ConfirmPassword: "123"}))
	assert.Equal(t, 0, api.registerCalls, "la validación local no llama al backend")

	require.NoError(t, uc.Register(ctx, dto.RegisterRequest{Email: " a@b.in ", Password: "123456", ConfirmPassword: "123456"}))
	assert.Equal(t, 1, api.registerCalls)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Logout / Session
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_GuardaTokenYEmail(t *testing.T) {
	sessions := &memSessions{}
	uc := auth.NewAuthUseCase(&fakeAuthAPI{token: "opaque-token"}, sessions, nil)

	require.NoError(t, uc.Login(context.Background(), dto.LoginRequest{Email: "ana@tienda.in", Password: "x"}))
	assert.Equal(t, "opaque-token", sessions.token)
	assert.Equal(t, "ana@tienda.in", sessions.email)
	assert.True(t, uc.IsLoggedIn())

	info := uc.Session()
	assert.True(t, info.LoggedIn)
	assert.Equal(t, "ana", info.DisplayName)
	assert.Empty(t, info.Subject, "un token opaco no aporta claims")

	require.NoError(t, uc.Logout())
	assert.False(t, uc.IsLoggedIn())
	assert.Empty(t, sessions.email)
	assert.False(t, uc.Session().LoggedIn)
}

func TestLogout_EjecutaLimpiezas(t *testing.T) {
	sessions := &memSessions{token: "tok", email: "ana@tienda.in"}
	uc := auth.NewAuthUseCase(&fakeAuthAPI{}, sessions, nil)

	var calls []string
	uc.OnLogout(func() error {
		assert.False(t, sessions.IsLoggedIn(), "la limpieza corre con el token ya borrado")
		calls = append(calls, "asistente")
		return nil
	})
	uc.OnLogout(func() error { calls = append(calls, "reporte"); return nil })

	require.NoError(t, uc.Logout())
	assert.Equal(t, []string{"asistente", "reporte"}, calls)
}

func TestLogout_UnErrorNoDetieneLasDemasLimpiezas(t *testing.T) {
	uc := auth.NewAuthUseCase(&fakeAuthAPI{}, &memSessions{token: "tok"}, nil)
	boom := errors.New("disco lleno")

	ran := false
	uc.OnLogout(func() error { return boom })
	uc.OnLogout(func() error { ran = true; return nil })

	err := uc.Logout()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, ran)
	assert.False(t, uc.IsLoggedIn(), "el token se borra aunque falle una limpieza")
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	sessions := &memSessions{}
	api := &fakeAuthAPI{loginErr: &domain.APIError{Kind: domain.KindAuth, Status: 401, Message: "Invalid credentials"}}
	uc := auth.NewAuthUseCase(api, sessions, nil)

	err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.in", Password: "x"})
	assert.True(t, domain.IsAuth(err))
	assert.False(t, sessions.IsLoggedIn())
}

func TestLogin_SinToken(t *testing.T) {
	uc := auth.NewAuthUseCase(&fakeAuthAPI{}, &memSessions{}, nil)
	err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.in", Password: "x"})
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindServer, kind)
	assert.Equal(t, "Error del servidor: respuesta inválida del servidor", domain.UserMessage(err))
}

func TestLogin_CamposVacios(t *testing.T) {
	uc := auth.NewAuthUseCase(&fakeAuthAPI{token: "t"}, &memSessions{}, nil)
	assertValidation(t, uc.Login(context.Background(), dto.LoginRequest{Email: "a@b.in"}))
}

func TestSession_TokenJWT(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"sub": "seller-7", "email": "raj@shop.in", "exp": exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	sessions := &memSessions{token: tok}
	info := auth.NewAuthUseCase(&fakeAuthAPI{}, sessions, nil).Session()
	assert.Equal(t, "seller-7", info.Subject)
	assert.Equal(t, "raj@shop.in", info.Email, "sin email guardado se usa el del token")
	assert.Equal(t, "raj", info.DisplayName)
	assert.True(t, exp.Equal(info.ExpiresAt))
}
