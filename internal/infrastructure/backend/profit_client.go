package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dayhom/profit-dashboard/internal/application/ports"
)

// ProfitClient implementa ports.ProfitAPI. No interpreta el payload: la forma del reporte
// cambió entre versiones del backend y se normaliza en un único punto (application/report).
type ProfitClient struct {
	c *Client
}

var _ ports.ProfitAPI = (*ProfitClient)(nil)

func NewProfitClient(c *Client) *ProfitClient { return &ProfitClient{c: c} }

// GetProfitSummary GET /api/profit.
func (p *ProfitClient) GetProfitSummary(ctx context.Context) (json.RawMessage, error) {
	resp, err := p.c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/profit"})
	if err != nil {
		return nil, err
	}
	return resp.Raw(), nil
}

// GetDetailedReport GET /api/profit/detailed.
func (p *ProfitClient) GetDetailedReport(ctx context.Context) (json.RawMessage, error) {
	resp, err := p.c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/profit/detailed"})
	if err != nil {
		return nil, err
	}
	return resp.Raw(), nil
}
