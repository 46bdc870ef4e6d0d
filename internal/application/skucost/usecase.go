// Package skucost gestiona costos de compra por SKU fuera del asistente (página SKU Cost y CLI).
package skucost

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dayhom/profit-dashboard/internal/application/ports"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// UseCase listado y guardado individual de costos.
type UseCase struct {
	api ports.SkuAPI
}

// NewUseCase construye el caso de uso.
func NewUseCase(api ports.SkuAPI) *UseCase { return &UseCase{api: api} }

// List devuelve los costos guardados ordenados por SKU.
func (uc *UseCase) List(ctx context.Context) ([]entity.SkuCostEntry, error) {
	entries, err := uc.api.ListSKUCosts(ctx)
	if err != nil {
		return nil, err
	}
	out := append([]entity.SkuCostEntry(nil), entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// Save valida y guarda un costo. El SKU se normaliza (mayúsculas, sin espacios).
func (uc *UseCase) Save(ctx context.Context, sku, price string) (*entity.SkuCostEntry, error) {
	sku = entity.NormalizeSKU(sku)
	price = strings.TrimSpace(price)
	if sku == "" || price == "" {
		return nil, domain.NewValidationError("SKU y costo son obligatorios")
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, domain.NewValidationError("el costo debe ser un número")
	}
	if d.IsNegative() {
		return nil, domain.NewValidationError("el costo no puede ser negativo")
	}
	entry := entity.SkuCostEntry{SKU: sku, CostPrice: d}
	if err := uc.api.UpsertSKUCost(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
