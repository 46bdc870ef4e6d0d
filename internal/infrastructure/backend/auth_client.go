package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dayhom/profit-dashboard/internal/application/ports"
	"github.com/dayhom/profit-dashboard/internal/domain"
)

// AuthClient implementa ports.AuthAPI. Sus rutas están bajo /api/auth o son /health,
// por lo que Client nunca adjunta el token.
type AuthClient struct {
	c             *Client
	healthTimeout time.Duration
}

var _ ports.AuthAPI = (*AuthClient)(nil)

// NewAuthClient crea el cliente de autenticación. healthTimeout <= 0 usa 5 s.
func NewAuthClient(c *Client, healthTimeout time.Duration) *AuthClient {
	if healthTimeout <= 0 {
		healthTimeout = 5 * time.Second
	}
	return &AuthClient{c: c, healthTimeout: healthTimeout}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

// Register POST /api/auth/register.
func (a *AuthClient) Register(ctx context.Context, email, password string) error {
	_, err := a.c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/register",
		Body:   credentials{Email: email, Password: password},
	})
	return err
}

// Login POST /api/auth/login. Devuelve "" si la respuesta no trae token.
func (a *AuthClient) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := a.c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   credentials{Email: email, Password: password},
	})
	if err != nil {
		return "", err
	}
	var out loginResponse
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	if out.Token != "" {
		return out.Token, nil
	}
	return out.AccessToken, nil
}

// CheckHealth GET /health con timeout corto. Cualquier fallo se reporta como ConnectivityError.
func (a *AuthClient) CheckHealth(ctx context.Context) (*ports.HealthStatus, error) {
	resp, err := a.c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    healthPath,
		Timeout: a.healthTimeout,
	})
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Kind != domain.KindConnectivity {
			return nil, &domain.APIError{
				Kind:    domain.KindConnectivity,
				Status:  apiErr.Status,
				Message: "el backend no está saludable",
				Raw:     apiErr.Raw,
				Err:     apiErr,
			}
		}
		return nil, err
	}

	hs := &ports.HealthStatus{Status: "ok"}
	var details map[string]any
	if err := json.Unmarshal(resp.Raw(), &details); err == nil {
		hs.Details = details
		if s, ok := details["status"].(string); ok && s != "" {
			hs.Status = s
		}
		return hs, nil
	}
	if txt := strings.TrimSpace(string(resp.Body)); txt != "" {
		hs.Status = txt
	}
	return hs, nil
}
