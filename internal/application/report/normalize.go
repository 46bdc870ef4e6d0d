// Package report es la capa de presentación del reporte de rentabilidad: normaliza el
// payload del backend en un único punto, formatea montos/fechas/porcentajes y exporta CSV.
// Todas las funciones son puras y nunca modifican su entrada.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// num número tolerante: ausente o null → nil.
type num = *decimal.Decimal

type rawReport struct {
	TotalSales      num `json:"totalSales"`
	TotalRevenue    num `json:"totalRevenue"`
	ShippingAndFees num `json:"shippingAndFees"`
	NetSettlement   num `json:"netSettlement"`
	TotalSettlement num `json:"totalSettlement"`
	OtherCharges    num `json:"otherCharges"`
	PurchaseCost    num `json:"purchaseCost"`
	TotalCost       num `json:"totalCost"`
	Profit          num `json:"profit"`
	TotalProfit     num `json:"totalProfit"`
	ProfitMargin    num `json:"profitMargin"`
	Margin          num `json:"margin"`

	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`

	OtherChargesBreakdown *struct {
		CostOfAdvertising        num `json:"costOfAdvertising"`
		FbaInboundPickupService  num `json:"fbaInboundPickupService"`
		FbaRemovalOrderReturnFee num `json:"fbaRemovalOrderReturnFee"`
	} `json:"otherChargesBreakdown"`

	OrderDetails *struct {
		TotalOrders              num `json:"totalOrders"`
		DeliveredOrders          num `json:"deliveredOrders"`
		DeliveryPercentage       num `json:"deliveryPercentage"`
		CourierReturn            num `json:"courierReturn"`
		CourierReturnPercentage  num `json:"courierReturnPercentage"`
		CustomerReturn           num `json:"customerReturn"`
		CustomerReturnPercentage num `json:"customerReturnPercentage"`
	} `json:"orderDetails"`

	FulfillmentDetails *struct {
		EasyShipOrderCount num `json:"easyShipOrderCount"`
		FbaOrderCount      num `json:"fbaOrderCount"`
		SelfShipOrderCount num `json:"selfShipOrderCount"`
	} `json:"fulfillmentDetails"`

	ReturnsDetails *struct {
		CustomerReturnCount      num `json:"customerReturnCount"`
		CustomerReturnPercentage num `json:"customerReturnPercentage"`
		CustomerReturnLoss       num `json:"customerReturnLoss"`
	} `json:"returnsDetails"`

	SkuWiseDetails []rawSkuRow `json:"skuWiseDetails"`
	BankTransfers  []struct {
		Date    string `json:"date"`
		Account string `json:"account"`
		Amount  num    `json:"amount"`
	} `json:"bankTransfers"`
}

type rawSkuRow struct {
	SKU              string `json:"sku"`
	ProductName      string `json:"productName"`
	UnitsSold        num    `json:"unitsSold"`
	ReturnCount      num    `json:"returnCount"`
	ReturnPercentage num    `json:"returnPercentage"`
	SuccessfulSales  num    `json:"successfulSales"`
	CostPrice        num    `json:"costPrice"`
	Settlement       num    `json:"settlement"`
	ReturnLoss       num    `json:"returnLoss"`
	Revenue          num    `json:"revenue"`
	Cost             num    `json:"cost"`
	Profit           num    `json:"profit"`
	TotalProfit      num    `json:"totalProfit"`
}

type rawSummary struct {
	TotalRevenue    num         `json:"totalRevenue"`
	TotalSales      num         `json:"totalSales"`
	TotalCost       num         `json:"totalCost"`
	PurchaseCost    num         `json:"purchaseCost"`
	TotalProfit     num         `json:"totalProfit"`
	Profit          num         `json:"profit"`
	Margin          num         `json:"margin"`
	ProfitMargin    num         `json:"profitMargin"`
	TotalSettlement num         `json:"totalSettlement"`
	NetSettlement   num         `json:"netSettlement"`
	SkuProfits      []rawSkuRow `json:"skuProfits"`
}

// Normalize convierte el payload de /api/profit/detailed en un ProfitReport completo:
// todo número ausente vale 0, toda lista ausente queda vacía y se resuelven los alias de
// versiones anteriores del backend (totalRevenue, totalSettlement, totalCost, totalProfit, margin).
func Normalize(raw json.RawMessage) (*entity.ProfitReport, error) {
	var r rawReport
	if err := decode(raw, &r); err != nil {
		return nil, err
	}

	out := &entity.ProfitReport{
		TotalSales:      pick(r.TotalSales, r.TotalRevenue),
		ShippingAndFees: pick(r.ShippingAndFees),
		NetSettlement:   pick(r.NetSettlement, r.TotalSettlement),
		OtherCharges:    pick(r.OtherCharges),
		PurchaseCost:    pick(r.PurchaseCost, r.TotalCost),
		Profit:          pick(r.Profit, r.TotalProfit),
		ProfitMargin:    pick(r.ProfitMargin, r.Margin),
		DateFrom:        r.DateFrom,
		DateTo:          r.DateTo,
		SkuWiseDetails:  make([]entity.SkuProfitRow, 0, len(r.SkuWiseDetails)),
		BankTransfers:   make([]entity.Transfer, 0, len(r.BankTransfers)),
	}

	if b := r.OtherChargesBreakdown; b != nil {
		out.OtherChargesBreakdown = &entity.OtherChargesBreakdown{
			CostOfAdvertising:        pick(b.CostOfAdvertising),
			FbaInboundPickupService:  pick(b.FbaInboundPickupService),
			FbaRemovalOrderReturnFee: pick(b.FbaRemovalOrderReturnFee),
		}
	}
	if o := r.OrderDetails; o != nil {
		out.OrderDetails = &entity.OrderDetails{
			TotalOrders:              count(o.TotalOrders),
			DeliveredOrders:          count(o.DeliveredOrders),
			DeliveryPercentage:       pick(o.DeliveryPercentage),
			CourierReturn:            count(o.CourierReturn),
			CourierReturnPercentage:  pick(o.CourierReturnPercentage),
			CustomerReturn:           count(o.CustomerReturn),
			CustomerReturnPercentage: pick(o.CustomerReturnPercentage),
		}
	}
	if f := r.FulfillmentDetails; f != nil {
		out.FulfillmentDetails = &entity.FulfillmentDetails{
			EasyShipOrderCount: count(f.EasyShipOrderCount),
			FbaOrderCount:      count(f.FbaOrderCount),
			SelfShipOrderCount: count(f.SelfShipOrderCount),
		}
	}
	if rd := r.ReturnsDetails; rd != nil {
		out.ReturnsDetails = &entity.ReturnsDetails{
			CustomerReturnCount:      count(rd.CustomerReturnCount),
			CustomerReturnPercentage: pick(rd.CustomerReturnPercentage),
			CustomerReturnLoss:       pick(rd.CustomerReturnLoss),
		}
	}

	for _, row := range r.SkuWiseDetails {
		out.SkuWiseDetails = append(out.SkuWiseDetails, row.toEntity())
	}
	for _, t := range r.BankTransfers {
		out.BankTransfers = append(out.BankTransfers, entity.Transfer{
			Date:    t.Date,
			Account: t.Account,
			Amount:  pick(t.Amount),
		})
	}
	return out, nil
}

// NormalizeSummary convierte el payload de /api/profit.
func NormalizeSummary(raw json.RawMessage) (*entity.ProfitSummary, error) {
	var r rawSummary
	if err := decode(raw, &r); err != nil {
		return nil, err
	}
	out := &entity.ProfitSummary{
		TotalRevenue:    pick(r.TotalRevenue, r.TotalSales),
		TotalCost:       pick(r.TotalCost, r.PurchaseCost),
		TotalProfit:     pick(r.TotalProfit, r.Profit),
		Margin:          pick(r.Margin, r.ProfitMargin),
		TotalSettlement: pick(r.TotalSettlement, r.NetSettlement),
		SkuProfits:      make([]entity.SkuProfitRow, 0, len(r.SkuProfits)),
	}
	for _, row := range r.SkuProfits {
		out.SkuProfits = append(out.SkuProfits, row.toEntity())
	}
	return out, nil
}

func (r rawSkuRow) toEntity() entity.SkuProfitRow {
	return entity.SkuProfitRow{
		SKU:              r.SKU,
		ProductName:      r.ProductName,
		UnitsSold:        count(r.UnitsSold),
		ReturnCount:      count(r.ReturnCount),
		ReturnPercentage: pick(r.ReturnPercentage),
		SuccessfulSales:  count(r.SuccessfulSales),
		CostPrice:        pick(r.CostPrice),
		Settlement:       pick(r.Settlement),
		ReturnLoss:       pick(r.ReturnLoss),
		Revenue:          pick(r.Revenue),
		Cost:             pick(r.Cost),
		Profit:           pick(r.Profit, r.TotalProfit),
	}
}

// decode acepta {data: X} o X. Un cuerpo vacío o null produce el reporte vacío.
func decode(raw json.RawMessage, out any) error {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || string(body) == "null" {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if body[0] == '{' && json.Unmarshal(body, &env) == nil {
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && string(d) != "null" {
			body = d
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.APIError{
			Kind: domain.KindServer,
			Raw:  "reporte con formato inesperado",
			Err:  fmt.Errorf("report: normalizar: %w", err),
		}
	}
	return nil
}

// pick devuelve el primer valor presente y distinto de cero; si ninguno, 0.
// Un 0 explícito en el nombre nuevo cede ante un alias con valor.
func pick(vals ...num) decimal.Decimal {
	for _, v := range vals {
		if v != nil && !v.IsZero() {
			return *v
		}
	}
	return decimal.Zero
}

func count(v num) int64 {
	if v == nil {
		return 0
	}
	return v.IntPart()
}
