package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims lo que el cliente sabe leer del token que emite el backend.
// El backend puede usar "email" o "user_id" además de los claims estándar.
type Claims struct {
	jwt.RegisteredClaims
	Email  string `json:"email"`
	UserID string `json:"user_id"`
}

// TokenInfo datos informativos extraídos del token.
type TokenInfo struct {
	Subject   string
	Email     string
	ExpiresAt time.Time // zero si el token no trae exp
}

// Inspect lee los claims SIN verificar la firma: el cliente no tiene el secreto del backend
// y solo usa el resultado para mostrarlo. Nunca debe usarse para decidir autorización.
// Devuelve error si el token no es un JWT (los tokens opacos son válidos para el backend).
func Inspect(tokenString string) (*TokenInfo, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("jwt: token vacío")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("jwt: token no inspeccionable: %w", err)
	}

	info := &TokenInfo{Subject: claims.Subject, Email: claims.Email}
	if info.Subject == "" {
		info.Subject = claims.UserID
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
