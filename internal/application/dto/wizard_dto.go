package dto

// OrderSummaryDTO resumen de la carga de órdenes.
type OrderSummaryDTO struct {
	FileName    string `json:"file_name"`
	TotalOrders int64  `json:"total_orders"`
	TotalSales  string `json:"total_sales"`
	UniqueSKUs  int64  `json:"unique_skus"`
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
}

// ReportHeadlineDTO cifras principales del reporte.
type ReportHeadlineDTO struct {
	TotalSales   string `json:"total_sales"`
	Profit       string `json:"profit"`
	ProfitMargin string `json:"profit_margin"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
	SKUCount     int    `json:"sku_count"`
}

// WizardStateResponse GET /api/wizard.
type WizardStateResponse struct {
	Step               string             `json:"step"`
	Busy               bool               `json:"busy"`
	ErrorMessage       string             `json:"error_message,omitempty"`
	OrderFileName      string             `json:"order_file_name,omitempty"`
	OrderSummary       *OrderSummaryDTO   `json:"order_summary,omitempty"`
	SettlementFileName string             `json:"settlement_file_name,omitempty"`
	SKUs               []string           `json:"skus"`
	SKUCosts           map[string]string  `json:"sku_costs,omitempty"`
	Report             *ReportHeadlineDTO `json:"report,omitempty"`
}
