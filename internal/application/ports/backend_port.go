package ports

import (
	"context"
	"encoding/json"

	"github.com/dayhom/profit-dashboard/internal/domain/entity"
)

// Puertos de salida hacia el backend de rentabilidad. La implementación concreta vive en
// infrastructure/backend; los tests inyectan fakes. Todos propagan *domain.APIError sin recuperarlo.

// HealthStatus respuesta de GET /health (solo diagnóstico).
type HealthStatus struct {
	Status  string
	Details map[string]any
}

// AuthAPI endpoints de autenticación; nunca llevan token.
type AuthAPI interface {
	Register(ctx context.Context, email, password string) error
	// Login devuelve el token bearer ("" si el backend no lo envió).
	Login(ctx context.Context, email, password string) (string, error)
	// CheckHealth usa un timeout corto propio para fallar rápido.
	CheckHealth(ctx context.Context) (*HealthStatus, error)
}

// UploadAPI subida de los CSV.
type UploadAPI interface {
	UploadOrders(ctx context.Context, file *entity.UploadedFile) (*entity.OrderSummary, error)
	UploadSettlement(ctx context.Context, file *entity.UploadedFile) error
}

// SkuAPI SKUs detectados y CRUD de costos.
type SkuAPI interface {
	ListSKUs(ctx context.Context) ([]string, error)
	ListSKUCosts(ctx context.Context) ([]entity.SkuCostEntry, error)
	UpsertSKUCost(ctx context.Context, entry entity.SkuCostEntry) error
}

// ProfitAPI reportes; devuelven el JSON crudo para que la capa de reporte lo normalice.
type ProfitAPI interface {
	GetProfitSummary(ctx context.Context) (json.RawMessage, error)
	GetDetailedReport(ctx context.Context) (json.RawMessage, error)
}

// ReportPDFGenerator genera la versión imprimible del reporte.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *entity.ProfitReport, skus []string) ([]byte, error)
}
