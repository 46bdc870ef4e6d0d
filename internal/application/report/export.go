package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// Nombres de archivo y Content-Type de las descargas.
const (
	SKUCSVFileName      = "sku_profit_analysis.csv"
	DetailedCSVFileName = "sku_profit_detailed.csv"
	CSVContentType      = "text/csv; charset=utf-8"
)

var skuCSVHeader = []string{"SKU", "Revenue", "Cost", "Profit", "Margin %"}

var detailedCSVHeader = []string{
	"SKU", "Product", "Units Sold", "Returns", "Return %", "Successful Sales",
	"Cost Price", "Settlement", "Return Loss", "Profit",
}

// SKUMargin margen por SKU con 2 decimales, o "0" si no hubo ingresos.
func SKUMargin(row entity.SkuProfitRow) string {
	if row.Revenue.IsZero() {
		return "0"
	}
	return row.Profit.Div(row.Revenue).Mul(hundred).StringFixed(2)
}

// ExportSKUCSV escribe "SKU,Revenue,Cost,Profit,Margin %" y una línea por fila con los
// valores sin formato de moneda (X,100,40,60,60.00). Las líneas terminan en "\n".
func ExportSKUCSV(rows []entity.SkuProfitRow, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(skuCSVHeader); err != nil {
		return fmt.Errorf("report: escribir cabecera csv: %w", err)
	}
	for _, r := range rows {
		rec := []string{r.SKU, plain(r.Revenue), plain(r.Cost), plain(r.Profit), SKUMargin(r)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("report: escribir fila %s: %w", r.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportDetailedSKUCSV exporta las columnas del reporte detallado.
func ExportDetailedSKUCSV(rows []entity.SkuProfitRow, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailedCSVHeader); err != nil {
		return fmt.Errorf("report: escribir cabecera csv: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.SKU,
			r.ProductName,
			strconv.FormatInt(r.UnitsSold, 10),
			strconv.FormatInt(r.ReturnCount, 10),
			r.ReturnPercentage.StringFixed(2),
			strconv.FormatInt(r.SuccessfulSales, 10),
			plain(r.CostPrice),
			plain(r.Settlement),
			plain(r.ReturnLoss),
			plain(r.Profit),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("report: escribir fila %s: %w", r.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// PDFFileName nombre de la versión imprimible: report_<desde>_<hasta>.pdf.
func PDFFileName(r *entity.ProfitReport) string {
	from, to := fileDate(r.DateFrom), fileDate(r.DateTo)
	if from == "" && to == "" {
		return "profit_report.pdf"
	}
	return fmt.Sprintf("report_%s_%s.pdf", nonEmpty(from, "na"), nonEmpty(to, "na"))
}

func fileDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		s = s[:10]
	}
	return strings.NewReplacer("/", "-", ":", "-", " ", "_").Replace(s)
}

// plain representación numérica mínima ("100", "12.5").
func plain(d decimal.Decimal) string { return d.String() }

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
