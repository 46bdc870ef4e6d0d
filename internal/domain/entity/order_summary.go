package entity

import "github.com/shopspring/decimal"

// OrderSummary resumen que devuelve el backend tras subir el CSV de órdenes (solo lectura).
type OrderSummary struct {
	FileName    string
	TotalOrders int64
	TotalSales  decimal.Decimal
	UniqueSKUs  int64
	DateFrom    string
	DateTo      string
}
