package entity

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SkuCostEntry costo de compra de un SKU (clave única). CostPrice >= 0.
type SkuCostEntry struct {
	SKU       string
	CostPrice decimal.Decimal
}

// NormalizeSKU aplica la forma canónica de un SKU: sin espacios y en mayúsculas.
func NormalizeSKU(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeSKUs limpia, descarta vacíos, elimina duplicados y ordena.
func NormalizeSKUs(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		sku := NormalizeSKU(s)
		if sku == "" {
			continue
		}
		if _, ok := seen[sku]; ok {
			continue
		}
		seen[sku] = struct{}{}
		out = append(out, sku)
	}
	sort.Strings(out)
	return out
}
