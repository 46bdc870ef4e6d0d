package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dayhom/profit-dashboard/internal/application/dto"
	"github.com/dayhom/profit-dashboard/internal/domain/repository"
)

const loginPath = "/login"

// RequireSession protege las rutas que necesitan sesión. Se evalúa en cada petición
// contra el Token Store, sin cachear: sin token, las páginas redirigen al login y la API
// local responde 401 sin ejecutar el handler.
func RequireSession(sessions repository.SessionRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessions.IsLoggedIn() {
			return c.Next()
		}
		if isAPIPath(c.Path()) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "inicia sesión para continuar"})
		}
		return c.Redirect(loginPath, fiber.StatusFound)
	}
}

// RedirectIfLoggedIn envía al dashboard a quien ya tiene sesión (login/registro).
func RedirectIfLoggedIn(sessions repository.SessionRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessions.IsLoggedIn() {
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Next()
	}
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
