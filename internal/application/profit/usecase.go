// Package profit expone el resumen de rentabilidad (/api/profit) y la versión imprimible
// del reporte detallado.
package profit

import (
	"context"
	"fmt"

	"github.com/dayhom/profit-dashboard/internal/application/ports"
	"github.com/dayhom/profit-dashboard/internal/application/report"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// UseCase casos de uso de consulta de rentabilidad.
type UseCase struct {
	api ports.ProfitAPI
	pdf ports.ReportPDFGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(api ports.ProfitAPI, pdf ports.ReportPDFGenerator) *UseCase {
	return &UseCase{api: api, pdf: pdf}
}

// Summary pide y normaliza el resumen de rentabilidad por SKU.
func (uc *UseCase) Summary(ctx context.Context) (*entity.ProfitSummary, error) {
	raw, err := uc.api.GetProfitSummary(ctx)
	if err != nil {
		return nil, err
	}
	return report.NormalizeSummary(raw)
}

// Detailed pide el reporte detallado fuera del asistente (CLI "report --refresh").
func (uc *UseCase) Detailed(ctx context.Context) (*entity.ProfitReport, error) {
	raw, err := uc.api.GetDetailedReport(ctx)
	if err != nil {
		return nil, err
	}
	return report.Normalize(raw)
}

// PrintablePDF genera el PDF del reporte y su nombre de archivo.
func (uc *UseCase) PrintablePDF(ctx context.Context, r *entity.ProfitReport, skus []string) ([]byte, string, error) {
	if r == nil {
		return nil, "", domain.ErrNoReport
	}
	doc, err := uc.pdf.GenerateReportPDF(ctx, r, skus)
	if err != nil {
		return nil, "", fmt.Errorf("profit: generar pdf: %w", err)
	}
	return doc, report.PDFFileName(r), nil
}
