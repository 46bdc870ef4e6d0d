package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
	"github.com/dayhom/profit-dashboard/internal/infrastructure/backend"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type staticTokens struct{ token string }

func (s staticTokens) GetToken() (string, bool) { return s.token, s.token != "" }

// recorder guarda las cabeceras Authorization recibidas por ruta.
type recorder struct {
	mu   sync.Mutex
	auth map[string]string
}

func (r *recorder) set(path, v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auth[path] = v
}

func (r *recorder) get(path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.auth[path]
}

func newFakeBackend(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{auth: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.set(r.URL.Path, r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func okJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// ──────────────────────────────────────────────────────────────────────────────
// Token bearer
// ──────────────────────────────────────────────────────────────────────────────

func TestIsAuthPath(t *testing.T) {
	cases := map[string]bool{
		"/api/auth/login":       true,
		"/api/auth/register":    true,
		"api/auth/login":        true,
		"/api/auth":             true,
		"/health":               true,
		"/health?verbose=1":     true,
		"/api/authors":          false,
		"/api/sku":              false,
		"/api/profit/detailed":  false,
		"/api/upload/orders":    false,
		"/healthz":              false,
		"/api/sku-cost":         false,
	}
	for path, want := range cases {
		assert.Equal(t, want, backend.IsAuthPath(path), "ruta %s", path)
	}
}

func TestClient_AdjuntaTokenSoloFueraDeAuth(t *testing.T) {
	srv, rec := newFakeBackend(t, okJSON)
	c := backend.NewClient(backend.Options{BaseURL: srv.URL, Tokens: staticTokens{token: "tok-123"}})

	paths := []string{"/api/auth/login", "/api/auth/register", "/health", "/api/sku", "/api/sku-cost", "/api/profit", "/api/profit/detailed"}
	for _, p := range paths {
		_, err := c.Do(context.Background(), backend.Request{Method: http.MethodGet, Path: p})
		require.NoError(t, err, p)
	}

	for _, p := range paths {
		if backend.IsAuthPath(p) {
			assert.Empty(t, rec.get(p), "no debe enviarse token a %s", p)
		} else {
			assert.Equal(t, "Bearer tok-123", rec.get(p), "debe enviarse token a %s", p)
		}
	}
}

func TestClient_SinTokenNoEnviaAuthorization(t *testing.T) {
	srv, rec := newFakeBackend(t, okJSON)
	c := backend.NewClient(backend.Options{BaseURL: srv.URL, Tokens: staticTokens{}})

	_, err := c.Do(context.Background(), backend.Request{Method: http.MethodGet, Path: "/api/sku"})
	require.NoError(t, err)
	assert.Empty(t, rec.get("/api/sku"))
}

func TestClient_EnviaRequestID(t *testing.T) {
	var got string
	srv, _ := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		okJSON(w, r)
	})
	c := backend.NewClient(backend.Options{BaseURL: srv.URL + "/"})
	_, err := c.Do(context.Background(), backend.Request{Method: http.MethodGet, Path: "/api/sku"})
	require.NoError(t, err)
	assert.Len(t, got, 36, "X-Request-ID debe ser un UUID")
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_MapeaStatusAKind(t *testing.T) {
	cases := []struct {
		status int
		kind   domain.ErrorKind
	}{
		{http.StatusBadRequest, domain.KindValidation},
		{http.StatusUnauthorized, domain.KindAuth},
		{http.StatusForbidden, domain.KindAuth},
		{http.StatusNotFound, domain.KindNotFound},
		{http.StatusInternalServerError, domain.KindServer},
		{http.StatusBadGateway, domain.KindServer},
	}
	for _, tc := range cases {
		srv, _ := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"message":"detalle del backend"}`))
		})
		c := backend.NewClient(backend.Options{BaseURL: srv.URL})
		_, err := c.Do(context.Background(), backend.Request{Method: http.MethodGet, Path: "/api/auth/login"})
		require.Error(t, err)

		var apiErr *domain.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, tc.kind, apiErr.Kind, "status %d", tc.status)
		assert.Equal(t, tc.status, apiErr.Status)
		assert.Equal(t, "detalle del backend", apiErr.Message)
		assert.Contains(t, apiErr.Raw, "detalle del backend")
	}
}

func TestClient_ErrorSinCuerpoJSON(t *testing.T) {
	srv, _ := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream caído", http.StatusServiceUnavailable)
	})
	c := backend.NewClient(backend.Options{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), backend.Request{Method: http.MethodGet, Path: "/api/profit"})

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.KindServer, apiErr.Kind)
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "upstream caído", apiErr.Raw)
}

func TestClient_BackendInalcanzable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(okJSON))
	url := srv.URL
	srv.Close()

	c := backend.NewClient(backend.Options{BaseURL: url})
	_, err := c.Do(context.Background(), backend.Request{Method: http.MethodGet, Path: "/api/sku"})

	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindConnectivity, kind)
}

func TestClient_Timeout(t *testing.T) {
	srv, _ := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		okJSON(w, r)
	})
	c := backend.NewClient(backend.Options{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), backend.Request{
		Method:  http.MethodGet,
		Path:    "/api/profit",
		Timeout: 50 * time.Millisecond,
	})

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.KindConnectivity, apiErr.Kind)
	assert.Equal(t, "tiempo de espera agotado", apiErr.Message)
}

func TestClient_OnUnauthorizedSoloEnRutasProtegidas(t *testing.T) {
	srv, _ := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	var calls int32
	c := backend.NewClient(backend.Options{
		BaseURL:        srv.URL,
		Tokens:         staticTokens{token: "viejo"},
		OnUnauthorized: func() { atomic.AddInt32(&calls, 1) },
	})

	_, err := c.Do(context.Background(), backend.Request{Method: http.MethodPost, Path: "/api/auth/login"})
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "credenciales inválidas no cierran la sesión")

	_, err = c.Do(context.Background(), backend.Request{Method: http.MethodGet, Path: "/api/sku"})
	require.Error(t, err)
	assert.True(t, domain.IsAuth(err))
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "un 401 en ruta protegida dispara el logout central")
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes de servicio
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthClient_Login(t *testing.T) {
	var body map[string]string
	srv, _ := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"token":"jwt-abc"}`))
	})
	auth := backend.NewAuthClient(backend.NewClient(backend.Options{BaseURL: srv.URL}), 0)

	token, err := auth.Login(context.Background(), "ana@tienda.in", "secreto")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)
	assert.Equal(t, "ana@tienda.in", body["email"])
	assert.Equal(t, "secreto", body["password"])
}

func TestAuthClient_CheckHealth(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		srv, _ := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"UP","db":"ok"}`))
		})
		auth := backend.NewAuthClient(backend.NewClient(backend.Options{BaseURL: srv.URL}), time.Second)
		hs, err := auth.CheckHealth(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "UP", hs.Status)
		assert.Equal(t, "ok", hs.Details["db"])
	})

	t.Run("texto plano", func(t *testing.T) {
		srv, _ := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("OK"))
		})
		auth := backend.NewAuthClient(backend.NewClient(backend.Options{BaseURL: srv.URL}), time.Second)
		hs, err := auth.CheckHealth(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "OK", hs.Status)
	})

	t.Run("5xx es ConnectivityError", func(t *testing.T) {
		srv, _ := newFakeBackend(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		auth := backend.NewAuthClient(backend.NewClient(backend.Options{BaseURL: srv.URL}), time.Second)
		_, err := auth.CheckHealth(context.Background())
		kind, _ := domain.KindOf(err)
		assert.Equal(t, domain.KindConnectivity, kind)
	})
}

func TestUploadClient_UploadOrders(t *testing.T) {
	srv, _ := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "orders.csv", hdr.Filename)
		assert.Equal(t, "text/csv", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "sku,qty\nA,1\n", string(data))

		_, _ = w.Write([]byte(`{"data":{"fileName":"orders.csv","totalOrders":12,"totalSales":1234.5,"uniqueSkus":3,"dateFrom":"2024-01-01","dateTo":"2024-01-31"}}`))
	})
	up := backend.NewUploadClient(backend.NewClient(backend.Options{BaseURL: srv.URL, Tokens: staticTokens{token: "t"}}))

	sum, err := up.UploadOrders(context.Background(), &entity.UploadedFile{
		Name: "orders.csv", MimeType: "text/csv", Data: []byte("sku,qty\nA,1\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), sum.TotalOrders)
	assert.True(t, decimal.RequireFromString("1234.5").Equal(sum.TotalSales))
	assert.Equal(t, int64(3), sum.UniqueSKUs)
	assert.Equal(t, "2024-01-31", sum.DateTo)
}

func TestSkuClient(t *testing.T) {
	var upsert map[string]any
	srv, _ := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/sku":
			_, _ = w.Write([]byte(`{"data":[" a1 ","B2",null]}`))
		case r.URL.Path == "/api/sku-cost" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[{"sku":"A1","costPrice":40},{"sku":"","costPrice":1},{"sku":"B2","costPrice":null}]`))
		case r.URL.Path == "/api/sku-cost" && r.Method == http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&upsert)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	sku := backend.NewSkuClient(backend.NewClient(backend.Options{BaseURL: srv.URL}))
	ctx := context.Background()

	skus, err := sku.ListSKUs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{" a1 ", "B2"}, skus)

	costs, err := sku.ListSKUCosts(ctx)
	require.NoError(t, err)
	require.Len(t, costs, 2)
	assert.Equal(t, "A1", costs[0].SKU)
	assert.True(t, decimal.NewFromInt(40).Equal(costs[0].CostPrice))
	assert.True(t, costs[1].CostPrice.IsZero())

	err = sku.UpsertSKUCost(ctx, entity.SkuCostEntry{SKU: "A1", CostPrice: decimal.RequireFromString("12.5")})
	require.NoError(t, err)
	assert.Equal(t, "A1", upsert["sku"])
	assert.Equal(t, 12.5, upsert["costPrice"], "costPrice viaja como número")
}

func TestProfitClient_DesenvuelveData(t *testing.T) {
	srv, _ := newFakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/profit/detailed" {
			_, _ = w.Write([]byte(`{"data":{"totalSales":10}}`))
			return
		}
		_, _ = w.Write([]byte(`{"totalRevenue":5}`))
	})
	p := backend.NewProfitClient(backend.NewClient(backend.Options{BaseURL: srv.URL}))

	raw, err := p.GetDetailedReport(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalSales":10}`, string(raw))

	raw, err = p.GetProfitSummary(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalRevenue":5}`, string(raw))
}
