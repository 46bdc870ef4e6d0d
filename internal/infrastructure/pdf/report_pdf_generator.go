// Package pdf genera la versión imprimible del reporte de rentabilidad.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + periodo         │  Ganancia + margen       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ventas, comisiones, liquidación, cargos, costo     │
//	│  DETALLE: otros cargos / órdenes / despacho / devoluciones   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA SKU: SKU | Producto | Unid. | Liquidación | Ganancia  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRANSFERENCIAS: fecha | cuenta | monto + total              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/dayhom/profit-dashboard/internal/application/ports"
	"github.com/dayhom/profit-dashboard/internal/application/report"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 22, Green: 163, Blue: 74}
	colorRed     = &props.Color{Red: 220, Green: 38, Blue: 38}
)

// Las fuentes core de PDF no incluyen el símbolo de la rupia.
var rupee = strings.NewReplacer("₹", "Rs. ")

func txt(value string, ps ...props.Text) core.Component {
	return text.New(rupee.Replace(value), ps...)
}

// ── Generator ─────────────────────────────────────────────────────────────────

// ReportPDFGenerator implementa ports.ReportPDFGenerator usando Maroto v2.
type ReportPDFGenerator struct{}

var _ ports.ReportPDFGenerator = (*ReportPDFGenerator)(nil)

// NewReportPDFGenerator construye el generador.
func NewReportPDFGenerator() *ReportPDFGenerator { return &ReportPDFGenerator{} }

// GenerateReportPDF genera el PDF y devuelve sus bytes. No modifica el reporte.
func (g *ReportPDFGenerator) GenerateReportPDF(
	ctx context.Context,
	r *entity.ProfitReport,
	skus []string,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := report.BuildView(r, skus)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de rentabilidad", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(v)...)

	for _, sec := range []struct {
		title string
		pairs []report.Pair
	}{
		{"Otros cargos", v.OtherCharges},
		{"Órdenes", v.Orders},
		{"Despacho", v.Fulfillment},
		{"Devoluciones", v.Returns},
	} {
		if len(sec.pairs) == 0 {
			continue
		}
		m.AddRows(sectionTitle(sec.title))
		m.AddRows(pairRows(sec.pairs)...)
	}

	if len(v.SKURows) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(sectionTitle("Rentabilidad por SKU"))
		m.AddRows(skuHeaderRow())
		m.AddRows(skuRows(v.SKURows)...)
	}
	if len(v.MissingSKUs) > 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			txt(fmt.Sprintf("SKUs sin datos en el reporte: %v", v.MissingSKUs), props.Text{
				Size: 7.5, Color: colorGray, Top: 1,
			}),
		)))
	}

	if len(v.Transfers) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(sectionTitle("Transferencias bancarias"))
		m.AddRows(transferRows(v)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + periodo (izq) y ganancia + margen (der).
func headerRow(v report.View) core.Row {
	profitColor := colorGreen
	if !v.IsProfit {
		profitColor = colorRed
	}
	return row.New(18).Add(
		col.New(7).Add(
			txt("Reporte de rentabilidad", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			txt(fmt.Sprintf("Periodo: %s al %s", v.DateFrom, v.DateTo), props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			txt("GANANCIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorGray, Top: 1,
			}),
			txt(v.Profit, props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Right, Color: profitColor, Top: 6,
			}),
			txt("Margen: "+v.ProfitMargin, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func summaryRows(v report.View) []core.Row {
	rows := make([]core.Row, 0, len(v.Summary))
	for _, metric := range v.Summary {
		c := &props.Color{}
		if metric.Negative {
			c = colorRed
		}
		share := ""
		if metric.Share != "" {
			share = "(" + metric.Share + ")"
		}
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(txt(metric.Label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
			col.New(4).Add(txt(metric.Value, props.Text{Size: 9, Align: align.Right, Top: 1, Color: c})),
			col.New(2).Add(txt(share, props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray})),
		))
	}
	return rows
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		txt(title, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		}),
	))
}

func pairRows(pairs []report.Pair) []core.Row {
	rows := make([]core.Row, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(txt(p.Label, props.Text{Size: 8.5, Left: 2})),
			col.New(4).Add(txt(p.Value, props.Text{Size: 8.5, Align: align.Right})),
			col.New(2),
		))
	}
	return rows
}

func skuHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(txt(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("SKU", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Unid.", 1, align.Center),
		h("Dev. %", 1, align.Center),
		h("Costo", 1, align.Right),
		h("Liquidación", 2, align.Right),
		h("Ganancia", 2, align.Right),
	)
}

func skuRows(rows []report.SKURowView) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		profitColor := &props.Color{}
		if r.IsLoss {
			profitColor = colorRed
		}
		sku := r.SKU
		if !r.Known {
			sku += " *"
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(txt(sku, props.Text{Size: 8, Left: 1, Top: 1})),
			col.New(3).Add(txt(r.ProductName, props.Text{Size: 8, Left: 1, Top: 1})),
			col.New(1).Add(txt(r.UnitsSold, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(txt(r.ReturnPercentage, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(txt(r.CostPrice, props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(txt(r.Settlement, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(txt(r.Profit, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: profitColor})),
		))
	}
	return result
}

func transferRows(v report.View) []core.Row {
	rows := make([]core.Row, 0, len(v.Transfers)+1)
	for _, t := range v.Transfers {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(txt(t.Date, props.Text{Size: 8.5, Left: 2})),
			col.New(5).Add(txt(t.Account, props.Text{Size: 8.5})),
			col.New(4).Add(txt(t.Amount, props.Text{Size: 8.5, Align: align.Right, Right: 1})),
		))
	}
	rows = append(rows, row.New(7).Add(
		col.New(8).Add(txt("Total transferido", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
		})),
		col.New(4).Add(txt(v.TransfersTotal, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: 1, Color: colorPrimary,
		})),
	))
	return rows
}
