package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayhom/profit-dashboard/internal/application/report"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Formato
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"1234.5":     "₹1,234.50",
		"0":          "₹0.00",
		"999":        "₹999.00",
		"12345":      "₹12,345.00",
		"123456":     "₹1,23,456.00",
		"1234567":    "₹12,34,567.00",
		"123456789":  "₹12,34,56,789.00",
		"-5":         "-₹5.00",
		"-1234.567":  "-₹1,234.57",
		"0.005":      "₹0.01",
		"-0.001":     "₹0.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, report.FormatCurrency(dec(in)), "monto %s", in)
	}
}

// Un campo ausente es el decimal cero y se formatea como 0.
func TestFormatCurrency_ValorCero(t *testing.T) {
	var missing decimal.Decimal
	assert.Equal(t, "₹0.00", report.FormatCurrency(missing))
}

func TestFormatPercentageYShare(t *testing.T) {
	assert.Equal(t, "12.35%", report.FormatPercentage(dec("12.345")))
	assert.Equal(t, "0.00%", report.FormatPercentage(decimal.Zero))

	assert.True(t, dec("25").Equal(report.Share(dec("250"), dec("1000"))))
	assert.True(t, report.Share(dec("250"), decimal.Zero).IsZero(), "total 0 no debe dividir por cero")
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05 Jan 2024", report.FormatDate("2024-01-05"))
	assert.Equal(t, "31 Mar 2024", report.FormatDate("2024-03-31T18:30:00Z"))
	assert.Equal(t, "31 Mar 2024", report.FormatDate("2024-03-31T18:30:00"))
	assert.Equal(t, "N/A", report.FormatDate(""))
	assert.Equal(t, "N/A", report.FormatDate("   "))
	assert.Equal(t, "semana 12", report.FormatDate("semana 12"))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", report.FormatCount(0))
	assert.Equal(t, "1,23,456", report.FormatCount(123456))
	assert.Equal(t, "-1,000", report.FormatCount(-1000))
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalize_CamposAusentesValenCero(t *testing.T) {
	r, err := report.Normalize(json.RawMessage(`{"data":{"dateFrom":"2024-01-01"}}`))
	require.NoError(t, err)

	assert.True(t, r.TotalSales.IsZero())
	assert.True(t, r.Profit.IsZero())
	assert.Equal(t, "2024-01-01", r.DateFrom)
	assert.NotNil(t, r.SkuWiseDetails)
	assert.Empty(t, r.SkuWiseDetails)
	assert.NotNil(t, r.BankTransfers)
	assert.Nil(t, r.OrderDetails, "las secciones opcionales ausentes quedan nil")
}

func TestNormalize_CuerpoVacio(t *testing.T) {
	for _, raw := range []string{"", "null", `{"data":null}`} {
		r, err := report.Normalize(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.True(t, r.TotalSales.IsZero())
		assert.Empty(t, r.SkuWiseDetails)
	}
}

func TestNormalize_Alias(t *testing.T) {
	raw := `{
		"totalRevenue": 1000,
		"totalSettlement": "800.50",
		"totalCost": 300,
		"totalProfit": 500.5,
		"margin": 50.05,
		"skuWiseDetails": [{"sku":"A1","totalProfit":20,"unitsSold":3}],
		"bankTransfers": [{"date":"2024-01-10","account":"XX12","amount":800.5}],
		"orderDetails": {"totalOrders": 10, "deliveredOrders": 9.0}
	}`
	r, err := report.Normalize(json.RawMessage(raw))
	require.NoError(t, err)

	assert.True(t, dec("1000").Equal(r.TotalSales))
	assert.True(t, dec("800.5").Equal(r.NetSettlement))
	assert.True(t, dec("300").Equal(r.PurchaseCost))
	assert.True(t, dec("500.5").Equal(r.Profit))
	assert.True(t, dec("50.05").Equal(r.ProfitMargin))

	require.Len(t, r.SkuWiseDetails, 1)
	assert.True(t, dec("20").Equal(r.SkuWiseDetails[0].Profit))
	assert.Equal(t, int64(3), r.SkuWiseDetails[0].UnitsSold)

	require.Len(t, r.BankTransfers, 1)
	assert.Equal(t, "XX12", r.BankTransfers[0].Account)

	require.NotNil(t, r.OrderDetails)
	assert.Equal(t, int64(9), r.OrderDetails.DeliveredOrders)
}

// El nombre nuevo gana si tiene valor.
func TestNormalize_NombreNuevoTienePrioridad(t *testing.T) {
	r, err := report.Normalize(json.RawMessage(`{"totalSales":10,"totalRevenue":99}`))
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(r.TotalSales))
}

func TestNormalize_FormatoInvalido(t *testing.T) {
	_, err := report.Normalize(json.RawMessage(`[1,2,3]`))
	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindServer, kind)
}

func TestNormalizeSummary(t *testing.T) {
	raw := `{"totalRevenue":100,"totalCost":40,"totalProfit":60,"margin":60,"totalSettlement":90,
		"skuProfits":[{"sku":"X","revenue":100,"cost":40,"profit":60}]}`
	s, err := report.NormalizeSummary(json.RawMessage(raw))
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(s.TotalProfit))
	assert.True(t, dec("90").Equal(s.TotalSettlement))
	require.Len(t, s.SkuProfits, 1)
	assert.True(t, dec("40").Equal(s.SkuProfits[0].Cost))
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestExportSKUCSV(t *testing.T) {
	rows := []entity.SkuProfitRow{
		{SKU: "X", Revenue: dec("100"), Cost: dec("40"), Profit: dec("60")},
	}
	var buf bytes.Buffer
	require.NoError(t, report.ExportSKUCSV(rows, &buf))
	assert.Equal(t, "SKU,Revenue,Cost,Profit,Margin %\nX,100,40,60,60.00\n", buf.String())
}

func TestExportSKUCSV_SinIngresosMargenCero(t *testing.T) {
	rows := []entity.SkuProfitRow{
		{SKU: "Y", Cost: dec("12.5"), Profit: dec("-12.5")},
		{SKU: "Z,1", Revenue: dec("200"), Cost: dec("250"), Profit: dec("-50")},
	}
	var buf bytes.Buffer
	require.NoError(t, report.ExportSKUCSV(rows, &buf))
	assert.Equal(t,
		"SKU,Revenue,Cost,Profit,Margin %\nY,0,12.5,-12.5,0\n\"Z,1\",200,250,-50,-25.00\n",
		buf.String())
}

func TestExportSKUCSV_NoModificaEntrada(t *testing.T) {
	rows := []entity.SkuProfitRow{{SKU: "x", Revenue: dec("1")}}
	var buf bytes.Buffer
	require.NoError(t, report.ExportSKUCSV(rows, &buf))
	assert.Equal(t, "x", rows[0].SKU)
}

func TestExportDetailedSKUCSV(t *testing.T) {
	rows := []entity.SkuProfitRow{{
		SKU: "A1", ProductName: "Taza", UnitsSold: 10, ReturnCount: 1,
		ReturnPercentage: dec("10"), SuccessfulSales: 9,
		CostPrice: dec("50"), Settlement: dec("900"), ReturnLoss: dec("30"), Profit: dec("420"),
	}}
	var buf bytes.Buffer
	require.NoError(t, report.ExportDetailedSKUCSV(rows, &buf))
	assert.Equal(t,
		"SKU,Product,Units Sold,Returns,Return %,Successful Sales,Cost Price,Settlement,Return Loss,Profit\n"+
			"A1,Taza,10,1,10.00,9,50,900,30,420\n",
		buf.String())
}

func TestPDFFileName(t *testing.T) {
	assert.Equal(t, "report_2024-01-01_2024-01-31.pdf",
		report.PDFFileName(&entity.ProfitReport{DateFrom: "2024-01-01T00:00:00Z", DateTo: "2024-01-31"}))
	assert.Equal(t, "profit_report.pdf", report.PDFFileName(&entity.ProfitReport{}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Vista
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildView(t *testing.T) {
	r := &entity.ProfitReport{
		TotalSales:      dec("1000"),
		ShippingAndFees: dec("-150"),
		NetSettlement:   dec("850"),
		Profit:          dec("-20"),
		ProfitMargin:    dec("-2"),
		DateFrom:        "2024-01-01",
		SkuWiseDetails: []entity.SkuProfitRow{
			{SKU: "a1", Profit: dec("10")},
			{SKU: "B2", Profit: dec("-30")},
		},
		BankTransfers: []entity.Transfer{
			{Date: "2024-01-10", Amount: dec("500")},
			{Date: "2024-01-20", Amount: dec("350")},
		},
	}

	v := report.BuildView(r, []string{"A1", "c3", " C3 "})

	assert.Equal(t, "01 Jan 2024", v.DateFrom)
	assert.Equal(t, "N/A", v.DateTo)
	assert.False(t, v.IsProfit)
	assert.Equal(t, "-₹20.00", v.Profit)
	assert.Equal(t, "₹850.00", v.TransfersTotal)

	require.Len(t, v.Summary, 6)
	assert.Equal(t, "-15.00%", v.Summary[1].Share)
	assert.True(t, v.Summary[1].Negative)

	require.Len(t, v.SKURows, 2)
	assert.True(t, v.SKURows[0].Known, "a1 coincide con A1 tras normalizar")
	assert.False(t, v.SKURows[1].Known)
	assert.True(t, v.SKURows[1].IsLoss)
	assert.Equal(t, []string{"C3"}, v.MissingSKUs)

	assert.Nil(t, v.OtherCharges)
	assert.Equal(t, "a1", r.SkuWiseDetails[0].SKU, "BuildView no modifica el reporte")
}

func TestBuildView_ReporteNil(t *testing.T) {
	v := report.BuildView(nil, nil)
	assert.Equal(t, "₹0.00", v.Profit)
	assert.Empty(t, v.SKURows)
	assert.Empty(t, v.MissingSKUs)
}
