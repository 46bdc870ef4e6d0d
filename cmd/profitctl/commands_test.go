package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayhom/profit-dashboard/internal/application/report"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadCosts_ConservaElTextoLiteral(t *testing.T) {
	path := writeTemp(t, "costs.yaml", "A1: 120.50\nb2: 0.1\nC3: \"7\"\n")

	costs, err := readCosts(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "120.50", "b2": "0.1", "C3": "7"}, costs)
}

func TestReadCosts_ValorNoEscalar(t *testing.T) {
	path := writeTemp(t, "costs.yaml", "A1:\n  - 1\n  - 2\n")

	_, err := readCosts(path)
	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindValidation, kind)
}

func TestReadCosts_ArchivoInexistente(t *testing.T) {
	_, err := readCosts(filepath.Join(t.TempDir(), "no.yaml"))
	assert.Error(t, err)
}

func TestPrintReport(t *testing.T) {
	r := &entity.ProfitReport{
		TotalSales: decimal.NewFromInt(1000),
		Profit:     decimal.NewFromInt(200),
		SkuWiseDetails: []entity.SkuProfitRow{
			{SKU: "A1", UnitsSold: 3, Profit: decimal.NewFromInt(200)},
		},
	}
	var buf bytes.Buffer
	printReport(&buf, report.BuildView(r, []string{"A1", "Z9"}))

	out := buf.String()
	assert.Contains(t, out, "₹1,000.00")
	assert.Contains(t, out, "A1")
	assert.Contains(t, out, "Sin datos en el reporte: Z9")
}

func TestLookup(t *testing.T) {
	_, ok := lookup("run")
	assert.True(t, ok)
	_, ok = lookup("desconocido")
	assert.False(t, ok)
}
