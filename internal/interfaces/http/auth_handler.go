package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dayhom/profit-dashboard/internal/application/auth"
	"github.com/dayhom/profit-dashboard/internal/application/dto"
	"github.com/dayhom/profit-dashboard/internal/domain"
)

// AuthHandler páginas de login/registro, logout y sesión.
type AuthHandler struct {
	uc   *auth.AuthUseCase
	view *renderer
}

// newAuthHandler construye el handler de auth.
func newAuthHandler(uc *auth.AuthUseCase, view *renderer) *AuthHandler {
	return &AuthHandler{uc: uc, view: view}
}

// LoginPage GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	data := pageData{Title: "Iniciar sesión"}
	if c.Query("registered") == "1" {
		data.Notice = "Cuenta creada. Ya puedes iniciar sesión."
	}
	return h.view.render(c, fiber.StatusOK, "login", data)
}

// Login POST /login (formulario).
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return h.view.render(c, fiber.StatusBadRequest, "login", pageData{Title: "Iniciar sesión", Error: "formulario inválido"})
	}
	if err := h.uc.Login(c.Context(), in); err != nil {
		status, _ := statusFor(err)
		return h.view.render(c, status, "login", pageData{
			Title: "Iniciar sesión",
			Error: domain.UserMessage(err),
			Form:  map[string]string{"email": in.Email},
		})
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// RegisterPage GET /register.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return h.view.render(c, fiber.StatusOK, "register", pageData{Title: "Crear cuenta"})
}

// Register POST /register (formulario).
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return h.view.render(c, fiber.StatusBadRequest, "register", pageData{Title: "Crear cuenta", Error: "formulario inválido"})
	}
	if err := h.uc.Register(c.Context(), in); err != nil {
		status, _ := statusFor(err)
		return h.view.render(c, status, "register", pageData{
			Title: "Crear cuenta",
			Error: domain.UserMessage(err),
			Form:  map[string]string{"email": in.Email},
		})
	}
	return c.Redirect(loginPath+"?registered=1", fiber.StatusSeeOther)
}

// Logout POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(); err != nil {
		return err
	}
	return c.Redirect(loginPath, fiber.StatusSeeOther)
}

// Session godoc
// @Summary      Sesión actual
// @Description  Email, nombre visible y, si el token es un JWT, sub y exp leídos sin verificar.
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.DataResponse{data=dto.SessionResponse}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	info := h.uc.Session()
	out := dto.SessionResponse{
		LoggedIn:    info.LoggedIn,
		Email:       info.Email,
		DisplayName: info.DisplayName,
		Subject:     info.Subject,
	}
	if !info.ExpiresAt.IsZero() {
		exp := info.ExpiresAt
		out.ExpiresAt = &exp
	}
	return c.JSON(dto.DataResponse{Data: out})
}

// BackendHealth godoc
// @Summary      Salud del backend
// @Description  Consulta GET /health del backend con timeout corto. Siempre responde 200; reachable indica el resultado.
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.DataResponse{data=dto.BackendHealthResponse}
// @Router       /api/backend/health [get]
func (h *AuthHandler) BackendHealth(c *fiber.Ctx) error {
	hs, err := h.uc.Health(c.Context())
	if err != nil {
		return c.JSON(dto.DataResponse{Data: dto.BackendHealthResponse{
			Reachable: false,
			Status:    "unreachable",
			Error:     domain.UserMessage(err),
		}})
	}
	return c.JSON(dto.DataResponse{Data: dto.BackendHealthResponse{
		Reachable: true,
		Status:    hs.Status,
		Details:   hs.Details,
	}})
}
