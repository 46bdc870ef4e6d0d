package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dayhom/profit-dashboard/internal/application/ports"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// SkuClient implementa ports.SkuAPI.
type SkuClient struct {
	c *Client
}

var _ ports.SkuAPI = (*SkuClient)(nil)

func NewSkuClient(c *Client) *SkuClient { return &SkuClient{c: c} }

type skuCostJSON struct {
	SKU       string           `json:"sku"`
	CostPrice *decimal.Decimal `json:"costPrice"`
}

// upsertPayload envía costPrice como número JSON, no como string.
type upsertPayload struct {
	SKU       string      `json:"sku"`
	CostPrice json.Number `json:"costPrice"`
}

// ListSKUs GET /api/sku. Devuelve la lista tal cual; la normalización es del asistente.
func (s *SkuClient) ListSKUs(ctx context.Context) ([]string, error) {
	resp, err := s.c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/sku"})
	if err != nil {
		return nil, err
	}
	var skus []*string
	if err := resp.Decode(&skus); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(skus))
	for _, sku := range skus {
		if sku != nil {
			out = append(out, *sku)
		}
	}
	return out, nil
}

// ListSKUCosts GET /api/sku-cost. Las entradas sin SKU se descartan; costo ausente = 0.
func (s *SkuClient) ListSKUCosts(ctx context.Context) ([]entity.SkuCostEntry, error) {
	resp, err := s.c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/sku-cost"})
	if err != nil {
		return nil, err
	}
	var raw []skuCostJSON
	if err := resp.Decode(&raw); err != nil {
		return nil, err
	}
	out := make([]entity.SkuCostEntry, 0, len(raw))
	for _, r := range raw {
		if r.SKU == "" {
			continue
		}
		e := entity.SkuCostEntry{SKU: r.SKU}
		if r.CostPrice != nil {
			e.CostPrice = *r.CostPrice
		}
		out = append(out, e)
	}
	return out, nil
}

// UpsertSKUCost PUT /api/sku-cost {sku, costPrice}.
func (s *SkuClient) UpsertSKUCost(ctx context.Context, entry entity.SkuCostEntry) error {
	_, err := s.c.Do(ctx, Request{
		Method: http.MethodPut,
		Path:   "/api/sku-cost",
		Body:   upsertPayload{SKU: entry.SKU, CostPrice: json.Number(entry.CostPrice.String())},
	})
	return err
}
