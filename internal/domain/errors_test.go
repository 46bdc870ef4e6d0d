package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayhom/profit-dashboard/internal/domain"
)

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, domain.KindAuth, domain.KindForStatus(401))
	assert.Equal(t, domain.KindAuth, domain.KindForStatus(403))
	assert.Equal(t, domain.KindNotFound, domain.KindForStatus(404))
	assert.Equal(t, domain.KindValidation, domain.KindForStatus(400))
	assert.Equal(t, domain.KindValidation, domain.KindForStatus(422))
	assert.Equal(t, domain.KindServer, domain.KindForStatus(500))
	assert.Equal(t, domain.KindServer, domain.KindForStatus(503))
}

func TestKindOf_Envuelto(t *testing.T) {
	err := fmt.Errorf("wizard: subir órdenes: %w", &domain.APIError{Kind: domain.KindNotFound, Status: 404})
	kind, ok := domain.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, domain.KindNotFound, kind)

	kind, ok = domain.KindOf(fmt.Errorf("x: %w", domain.ErrInvalidTransition))
	assert.True(t, ok)
	assert.Equal(t, domain.KindValidation, kind)

	_, ok = domain.KindOf(errors.New("otro"))
	assert.False(t, ok)
}

func TestIsAuth(t *testing.T) {
	assert.True(t, domain.IsAuth(&domain.APIError{Kind: domain.KindAuth}))
	assert.True(t, domain.IsAuth(domain.ErrNoSession))
	assert.False(t, domain.IsAuth(domain.NewValidationError("x")))
	assert.False(t, domain.IsAuth(nil))
}

func TestAPIError_Error(t *testing.T) {
	e := &domain.APIError{Kind: domain.KindServer, Status: 500, Raw: "boom"}
	assert.Equal(t, "ServerError (500): boom", e.Error())

	e = &domain.APIError{Kind: domain.KindConnectivity, Message: "tiempo de espera agotado"}
	assert.Equal(t, "ConnectivityError: tiempo de espera agotado", e.Error())
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, domain.UserMessage(nil))
	assert.Equal(t, "SKU duplicado", domain.UserMessage(&domain.APIError{Kind: domain.KindValidation, Message: "SKU duplicado"}))
	assert.Equal(t, "Error del servidor. Intenta más tarde.", domain.UserMessage(&domain.APIError{Kind: domain.KindServer}))
	assert.Contains(t, domain.UserMessage(&domain.APIError{Kind: domain.KindConnectivity, Raw: "dial tcp"}), "No se pudo conectar")
	assert.Equal(t, "Espera a que termine la operación en curso.", domain.UserMessage(fmt.Errorf("w: %w", domain.ErrBusy)))
}
