package repository

import "github.com/dayhom/profit-dashboard/internal/domain/entity"

// ReportRepository persiste solo el último ProfitReport completo; nunca el paso del asistente.
type ReportRepository interface {
	SaveReport(report *entity.ProfitReport, skus []string) error
	// LoadReport devuelve (nil, nil, nil) si no hay reporte guardado.
	LoadReport() (*entity.ProfitReport, []string, error)
	DeleteReport() error
}
