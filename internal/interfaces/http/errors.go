package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dayhom/profit-dashboard/internal/application/dto"
	"github.com/dayhom/profit-dashboard/internal/domain"
)

// statusFor traduce un error de aplicación al código HTTP de la API local.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBusy):
		return fiber.StatusConflict, "BUSY"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_STEP"
	case errors.Is(err, domain.ErrStale):
		return fiber.StatusConflict, "STALE"
	case errors.Is(err, domain.ErrNoReport):
		return fiber.StatusNotFound, "NO_REPORT"
	}
	kind, ok := domain.KindOf(err)
	if !ok {
		return fiber.StatusInternalServerError, "INTERNAL"
	}
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest, "VALIDATION"
	case domain.KindAuth:
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case domain.KindNotFound:
		return fiber.StatusNotFound, "NOT_FOUND"
	case domain.KindConnectivity:
		return fiber.StatusServiceUnavailable, "BACKEND_UNREACHABLE"
	default:
		return fiber.StatusBadGateway, "BACKEND_ERROR"
	}
}

// apiError responde el error como dto.ErrorResponse.
func apiError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: domain.UserMessage(err)})
}
