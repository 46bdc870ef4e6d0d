package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/dayhom/profit-dashboard/pkg/jwt"
)

func signed(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secreto-del-backend"))
	require.NoError(t, err)
	return tok
}

func TestInspect_LeeClaimsSinSecreto(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, gojwt.MapClaims{
		"sub":   "42",
		"email": "ana@tienda.in",
		"exp":   exp.Unix(),
	})

	info, err := pkgjwt.Inspect(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", info.Subject)
	assert.Equal(t, "ana@tienda.in", info.Email)
	assert.True(t, exp.Equal(info.ExpiresAt))
}

func TestInspect_UserIDComoSubject(t *testing.T) {
	info, err := pkgjwt.Inspect(signed(t, gojwt.MapClaims{"user_id": "u-1"}))
	require.NoError(t, err)
	assert.Equal(t, "u-1", info.Subject)
	assert.True(t, info.ExpiresAt.IsZero())
}

// Un token expirado igual se inspecciona: la expiración es solo informativa.
func TestInspect_TokenExpirado(t *testing.T) {
	info, err := pkgjwt.Inspect(signed(t, gojwt.MapClaims{"sub": "1", "exp": time.Now().Add(-time.Hour).Unix()}))
	require.NoError(t, err)
	assert.Equal(t, "1", info.Subject)
}

func TestInspect_TokenOpaco(t *testing.T) {
	_, err := pkgjwt.Inspect("abc123")
	assert.Error(t, err)

	_, err = pkgjwt.Inspect("")
	assert.Error(t, err)
}
