package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dayhom/profit-dashboard/internal/domain/entity"
	"github.com/dayhom/profit-dashboard/internal/domain/repository"
)

const keyLastReport = "lastReport"

// ReportStore persiste el último reporte de rentabilidad (único estado del asistente que sobrevive).
type ReportStore struct {
	fs *FileStore
}

var _ repository.ReportRepository = (*ReportStore)(nil)

type storedReport struct {
	Report  *entity.ProfitReport `json:"report"`
	SKUs    []string             `json:"skus"`
	SavedAt time.Time            `json:"saved_at"`
}

// NewReportStore construye el almacén del último reporte.
func NewReportStore(fs *FileStore) *ReportStore {
	return &ReportStore{fs: fs}
}

func (s *ReportStore) SaveReport(report *entity.ProfitReport, skus []string) error {
	raw, err := json.Marshal(storedReport{Report: report, SKUs: skus, SavedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("storage: serializar reporte: %w", err)
	}
	return s.fs.Set(keyLastReport, string(raw))
}

func (s *ReportStore) LoadReport() (*entity.ProfitReport, []string, error) {
	raw, ok := s.fs.Get(keyLastReport)
	if !ok || raw == "" {
		return nil, nil, nil
	}
	var sr storedReport
	if err := json.Unmarshal([]byte(raw), &sr); err != nil {
		return nil, nil, fmt.Errorf("storage: reporte guardado corrupto: %w", err)
	}
	return sr.Report, sr.SKUs, nil
}

func (s *ReportStore) DeleteReport() error { return s.fs.Delete(keyLastReport) }
