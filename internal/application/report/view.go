package report

import (
	"github.com/shopspring/decimal"

	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// Metric línea del resumen financiero. Share es el porcentaje sobre las ventas ("" si no aplica).
type Metric struct {
	Label    string
	Value    string
	Share    string
	Negative bool
}

// Pair etiqueta/valor ya formateado para las secciones de detalle.
type Pair struct {
	Label string
	Value string
}

// TransferView transferencia bancaria formateada.
type TransferView struct {
	Date    string
	Account string
	Amount  string
}

// SKURowView fila por SKU formateada. Known indica si el SKU estaba entre los detectados
// en las cargas del asistente.
type SKURowView struct {
	SKU              string
	ProductName      string
	UnitsSold        string
	ReturnCount      string
	ReturnPercentage string
	SuccessfulSales  string
	CostPrice        string
	Settlement       string
	ReturnLoss       string
	Revenue          string
	Cost             string
	Profit           string
	Margin           string
	IsLoss           bool
	Known            bool
}

// View el reporte listo para pintar (HTML o PDF).
type View struct {
	DateFrom string
	DateTo   string

	Summary      []Metric
	Profit       string
	ProfitMargin string
	IsProfit     bool

	OtherCharges []Pair // nil si el backend no envió el desglose
	Orders       []Pair
	Fulfillment  []Pair
	Returns      []Pair

	Transfers      []TransferView
	TransfersTotal string

	SKURows     []SKURowView
	MissingSKUs []string // SKUs detectados que no aparecen en el reporte
}

// BuildView formatea el reporte y lo cruza con los SKUs conocidos.
func BuildView(r *entity.ProfitReport, knownSKUs []string) View {
	if r == nil {
		r = &entity.ProfitReport{}
	}
	v := View{
		DateFrom:     FormatDate(r.DateFrom),
		DateTo:       FormatDate(r.DateTo),
		Profit:       FormatCurrency(r.Profit),
		ProfitMargin: FormatPercentage(r.ProfitMargin),
		IsProfit:     !r.Profit.IsNegative(),
	}

	sales := r.TotalSales
	v.Summary = []Metric{
		{Label: "Ventas", Value: FormatCurrency(sales)},
		shareMetric("Envíos y comisiones", r.ShippingAndFees, sales),
		shareMetric("Liquidación neta", r.NetSettlement, sales),
		shareMetric("Otros cargos", r.OtherCharges, sales),
		{Label: "Costo de compra", Value: FormatCurrency(r.PurchaseCost), Negative: r.PurchaseCost.IsNegative()},
		{Label: "Ganancia", Value: v.Profit, Share: FormatPercentage(r.ProfitMargin), Negative: r.Profit.IsNegative()},
	}

	if b := r.OtherChargesBreakdown; b != nil {
		v.OtherCharges = []Pair{
			{"Publicidad", FormatCurrency(b.CostOfAdvertising)},
			{"FBA Inbound Pickup Service", FormatCurrency(b.FbaInboundPickupService)},
			{"FBA Removal Order / Return Fee", FormatCurrency(b.FbaRemovalOrderReturnFee)},
		}
	}
	if o := r.OrderDetails; o != nil {
		v.Orders = []Pair{
			{"Órdenes totales", FormatCount(o.TotalOrders)},
			{"Entregadas", FormatCount(o.DeliveredOrders) + " (" + FormatPercentage(o.DeliveryPercentage) + ")"},
			{"Devolución del courier", FormatCount(o.CourierReturn) + " (" + FormatPercentage(o.CourierReturnPercentage) + ")"},
			{"Devolución del cliente", FormatCount(o.CustomerReturn) + " (" + FormatPercentage(o.CustomerReturnPercentage) + ")"},
		}
	}
	if f := r.FulfillmentDetails; f != nil {
		v.Fulfillment = []Pair{
			{"Easy Ship", FormatCount(f.EasyShipOrderCount)},
			{"FBA", FormatCount(f.FbaOrderCount)},
			{"Self Ship", FormatCount(f.SelfShipOrderCount)},
		}
	}
	if rd := r.ReturnsDetails; rd != nil {
		v.Returns = []Pair{
			{"Devoluciones de clientes", FormatCount(rd.CustomerReturnCount)},
			{"% de devoluciones", FormatPercentage(rd.CustomerReturnPercentage)},
			{"Pérdida por devoluciones", FormatCurrency(rd.CustomerReturnLoss)},
		}
	}

	total := decimal.Zero
	v.Transfers = make([]TransferView, 0, len(r.BankTransfers))
	for _, t := range r.BankTransfers {
		total = total.Add(t.Amount)
		v.Transfers = append(v.Transfers, TransferView{
			Date:    FormatDate(t.Date),
			Account: t.Account,
			Amount:  FormatCurrency(t.Amount),
		})
	}
	v.TransfersTotal = FormatCurrency(total)

	known := make(map[string]struct{}, len(knownSKUs))
	for _, s := range knownSKUs {
		known[entity.NormalizeSKU(s)] = struct{}{}
	}
	inReport := make(map[string]struct{}, len(r.SkuWiseDetails))

	v.SKURows = make([]SKURowView, 0, len(r.SkuWiseDetails))
	for _, row := range r.SkuWiseDetails {
		sku := entity.NormalizeSKU(row.SKU)
		inReport[sku] = struct{}{}
		_, ok := known[sku]
		v.SKURows = append(v.SKURows, SKURowView{
			SKU:              row.SKU,
			ProductName:      row.ProductName,
			UnitsSold:        FormatCount(row.UnitsSold),
			ReturnCount:      FormatCount(row.ReturnCount),
			ReturnPercentage: FormatPercentage(row.ReturnPercentage),
			SuccessfulSales:  FormatCount(row.SuccessfulSales),
			CostPrice:        FormatCurrency(row.CostPrice),
			Settlement:       FormatCurrency(row.Settlement),
			ReturnLoss:       FormatCurrency(row.ReturnLoss),
			Revenue:          FormatCurrency(row.Revenue),
			Cost:             FormatCurrency(row.Cost),
			Profit:           FormatCurrency(row.Profit),
			Margin:           SKUMargin(row) + "%",
			IsLoss:           row.Profit.IsNegative(),
			Known:            ok,
		})
	}

	for _, s := range entity.NormalizeSKUs(knownSKUs) {
		if _, ok := inReport[s]; !ok {
			v.MissingSKUs = append(v.MissingSKUs, s)
		}
	}
	return v
}

// SummaryView resumen de /api/profit formateado.
type SummaryView struct {
	TotalRevenue    string
	TotalCost       string
	TotalProfit     string
	Margin          string
	TotalSettlement string
	IsProfit        bool
	SKURows         []SKURowView
}

// BuildSummaryView formatea el resumen de rentabilidad.
func BuildSummaryView(s *entity.ProfitSummary) SummaryView {
	if s == nil {
		s = &entity.ProfitSummary{}
	}
	v := SummaryView{
		TotalRevenue:    FormatCurrency(s.TotalRevenue),
		TotalCost:       FormatCurrency(s.TotalCost),
		TotalProfit:     FormatCurrency(s.TotalProfit),
		Margin:          FormatPercentage(s.Margin),
		TotalSettlement: FormatCurrency(s.TotalSettlement),
		IsProfit:        !s.TotalProfit.IsNegative(),
		SKURows:         make([]SKURowView, 0, len(s.SkuProfits)),
	}
	for _, row := range s.SkuProfits {
		v.SKURows = append(v.SKURows, SKURowView{
			SKU:     row.SKU,
			Revenue: FormatCurrency(row.Revenue),
			Cost:    FormatCurrency(row.Cost),
			Profit:  FormatCurrency(row.Profit),
			Margin:  SKUMargin(row) + "%",
			IsLoss:  row.Profit.IsNegative(),
			Known:   true,
		})
	}
	return v
}

func shareMetric(label string, part, sales decimal.Decimal) Metric {
	return Metric{
		Label:    label,
		Value:    FormatCurrency(part),
		Share:    FormatPercentage(Share(part, sales)),
		Negative: part.IsNegative(),
	}
}
