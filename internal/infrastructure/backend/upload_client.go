package backend

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dayhom/profit-dashboard/internal/application/ports"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// UploadClient implementa ports.UploadAPI.
type UploadClient struct {
	c *Client
}

var _ ports.UploadAPI = (*UploadClient)(nil)

func NewUploadClient(c *Client) *UploadClient { return &UploadClient{c: c} }

type orderSummaryJSON struct {
	FileName    string           `json:"fileName"`
	TotalOrders int64            `json:"totalOrders"`
	TotalSales  *decimal.Decimal `json:"totalSales"`
	UniqueSKUs  int64            `json:"uniqueSkus"`
	DateFrom    string           `json:"dateFrom"`
	DateTo      string           `json:"dateTo"`
}

// UploadOrders POST /api/upload/orders (multipart) → {data: OrderSummary}.
func (u *UploadClient) UploadOrders(ctx context.Context, file *entity.UploadedFile) (*entity.OrderSummary, error) {
	if file == nil {
		return nil, domain.NewValidationError("selecciona el archivo de órdenes")
	}
	resp, err := u.c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/upload/orders", File: file})
	if err != nil {
		return nil, err
	}
	var raw orderSummaryJSON
	if err := resp.Decode(&raw); err != nil {
		return nil, err
	}
	out := &entity.OrderSummary{
		FileName:    raw.FileName,
		TotalOrders: raw.TotalOrders,
		UniqueSKUs:  raw.UniqueSKUs,
		DateFrom:    raw.DateFrom,
		DateTo:      raw.DateTo,
	}
	if raw.TotalSales != nil {
		out.TotalSales = *raw.TotalSales
	}
	if out.FileName == "" {
		out.FileName = file.Name
	}
	return out, nil
}

// UploadSettlement POST /api/upload/settlement (multipart). La respuesta es solo un ack.
func (u *UploadClient) UploadSettlement(ctx context.Context, file *entity.UploadedFile) error {
	if file == nil {
		return domain.NewValidationError("selecciona el archivo de liquidación")
	}
	_, err := u.c.Do(ctx, Request{Method: http.MethodPost, Path: "/api/upload/settlement", File: file})
	return err
}
