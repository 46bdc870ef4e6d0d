// Package backend implementa los clientes HTTP del backend de rentabilidad: un único
// pipeline de request/response (Client) y los clientes de servicio construidos encima.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
	"github.com/dayhom/profit-dashboard/pkg/logger"
)

const (
	authPrefix      = "/api/auth"
	healthPath      = "/health"
	maxResponseBody = 4 << 20 // 4 MiB
	headerRequestID = "X-Request-ID"
)

// TokenSource lo mínimo que el cliente necesita del Token Store.
type TokenSource interface {
	GetToken() (string, bool)
}

// Options dependencias y parámetros del Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration // por defecto 10 s
	Tokens     TokenSource
	Logger     *logger.Logger
	HTTPClient *http.Client
	// OnUnauthorized se invoca cuando una ruta protegida responde 401/403.
	OnUnauthorized func()
}

// Client pipeline HTTP hacia el backend. Adjunta el Bearer token a todo salvo a
// los endpoints de autenticación, registra cada llamada y normaliza los errores.
// No reintenta.
type Client struct {
	baseURL        string
	timeout        time.Duration
	httpClient     *http.Client
	tokens         TokenSource
	log            *logger.Logger
	onUnauthorized func()
}

// Request petición al backend. Body se serializa como JSON; File como multipart (campo "file").
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	File    *entity.UploadedFile
	Timeout time.Duration // 0 = timeout por defecto del cliente
}

// Response respuesta 2xx ya leída.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewClient construye el cliente.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		timeout:        timeout,
		httpClient:     hc,
		tokens:         opts.Tokens,
		log:            log.Component("backend"),
		onUnauthorized: opts.OnUnauthorized,
	}
}

// SetOnUnauthorized permite cablear el logout central después de construir el cliente.
func (c *Client) SetOnUnauthorized(fn func()) { c.onUnauthorized = fn }

// IsAuthPath indica si path pertenece al espacio de autenticación (login/register/health),
// al que nunca se le adjunta el token.
func IsAuthPath(path string) bool {
	p := path
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = "/" + strings.TrimLeft(p, "/")
	return p == authPrefix || strings.HasPrefix(p, authPrefix+"/") || p == healthPath
}

// Do ejecuta la petición. Los fallos de red, timeouts y respuestas no-2xx vuelven como
// *domain.APIError con el status, el mensaje del backend y el mensaje crudo.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	reqID := req.Header.Get(headerRequestID)

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", r.Method).
		Str("path", r.Path).
		Bool("auth", req.Header.Get("Authorization") != "").
		Msg("petición al backend")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		apiErr := connectivityError(ctx, err)
		c.log.Error().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.Path).
			Dur("duration", duration).
			Err(err).
			Msg("backend inalcanzable")
		return nil, apiErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, connectivityError(ctx, err)
	}

	c.log.Info().
		Str("request_id", reqID).
		Str("method", r.Method).
		Str("path", r.Path).
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("respuesta del backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := statusError(resp.StatusCode, body)
		c.log.Warn().
			Str("request_id", reqID).
			Str("path", r.Path).
			Int("status", resp.StatusCode).
			Str("kind", string(apiErr.Kind)).
			Str("message", apiErr.Message).
			Msg("error del backend")
		if apiErr.Kind == domain.KindAuth && !IsAuthPath(r.Path) && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, apiErr
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, r Request) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.File != nil:
		buf, ct, err := multipartBody(r.File)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case r.Body != nil:
		raw, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("backend: serializar cuerpo: %w", err)
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("backend: crear request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.New().String())

	if !IsAuthPath(r.Path) && c.tokens != nil {
		if token, ok := c.tokens.GetToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// multipartBody arma el formulario con el archivo en el campo "file" y su Content-Type real.
func multipartBody(f *entity.UploadedFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	ct := f.MimeType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(f.Name)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("backend: crear parte multipart: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", fmt.Errorf("backend: copiar archivo: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("backend: cerrar multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// Decode deserializa el cuerpo aceptando tanto {data: X} como X.
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(unwrapData(r.Body), out); err != nil {
		return &domain.APIError{
			Kind:   domain.KindServer,
			Status: r.Status,
			Raw:    "respuesta con formato inesperado",
			Err:    err,
		}
	}
	return nil
}

// Raw devuelve el cuerpo sin envoltorio {data: ...}.
func (r *Response) Raw() json.RawMessage {
	return json.RawMessage(unwrapData(r.Body))
}

func connectivityError(ctx context.Context, err error) *domain.APIError {
	raw := err.Error()
	msg := "no se pudo conectar con el backend"
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		msg = "tiempo de espera agotado"
	}
	return &domain.APIError{Kind: domain.KindConnectivity, Message: msg, Raw: raw, Err: err}
}
