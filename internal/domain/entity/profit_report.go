package entity

import "github.com/shopspring/decimal"

// ProfitReport reporte agregado que calcula el backend. Inmutable una vez recibido;
// se vuelve a pedir en cada finalización del asistente.
type ProfitReport struct {
	TotalSales      decimal.Decimal
	ShippingAndFees decimal.Decimal
	NetSettlement   decimal.Decimal
	OtherCharges    decimal.Decimal
	PurchaseCost    decimal.Decimal
	Profit          decimal.Decimal
	ProfitMargin    decimal.Decimal
	DateFrom        string
	DateTo          string

	OtherChargesBreakdown *OtherChargesBreakdown
	OrderDetails          *OrderDetails
	FulfillmentDetails    *FulfillmentDetails
	ReturnsDetails        *ReturnsDetails

	SkuWiseDetails []SkuProfitRow
	BankTransfers  []Transfer
}

// OtherChargesBreakdown desglose de "otros cargos" de la liquidación.
type OtherChargesBreakdown struct {
	CostOfAdvertising        decimal.Decimal
	FbaInboundPickupService  decimal.Decimal
	FbaRemovalOrderReturnFee decimal.Decimal
}

// OrderDetails conteos de órdenes por resultado.
type OrderDetails struct {
	TotalOrders              int64
	DeliveredOrders          int64
	DeliveryPercentage       decimal.Decimal
	CourierReturn            int64
	CourierReturnPercentage  decimal.Decimal
	CustomerReturn           int64
	CustomerReturnPercentage decimal.Decimal
}

// FulfillmentDetails órdenes por canal de despacho.
type FulfillmentDetails struct {
	EasyShipOrderCount int64
	FbaOrderCount      int64
	SelfShipOrderCount int64
}

// ReturnsDetails devoluciones de clientes.
type ReturnsDetails struct {
	CustomerReturnCount      int64
	CustomerReturnPercentage decimal.Decimal
	CustomerReturnLoss       decimal.Decimal
}

// SkuProfitRow fila por SKU. El reporte detallado llena las columnas de unidades y
// liquidación; el resumen (/api/profit) llena Revenue/Cost.
type SkuProfitRow struct {
	SKU              string
	ProductName      string
	UnitsSold        int64
	ReturnCount      int64
	ReturnPercentage decimal.Decimal
	SuccessfulSales  int64
	CostPrice        decimal.Decimal
	Settlement       decimal.Decimal
	ReturnLoss       decimal.Decimal
	Revenue          decimal.Decimal
	Cost             decimal.Decimal
	Profit           decimal.Decimal
}

// Transfer transferencia bancaria de Amazon al vendedor.
type Transfer struct {
	Date    string
	Account string
	Amount  decimal.Decimal
}

// ProfitSummary respuesta de /api/profit: totales + rentabilidad por SKU.
type ProfitSummary struct {
	TotalRevenue    decimal.Decimal
	TotalCost       decimal.Decimal
	TotalProfit     decimal.Decimal
	Margin          decimal.Decimal
	TotalSettlement decimal.Decimal
	SkuProfits      []SkuProfitRow
}
