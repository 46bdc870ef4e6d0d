package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/dayhom/profit-dashboard/internal/application/auth"
	"github.com/dayhom/profit-dashboard/internal/application/dto"
	"github.com/dayhom/profit-dashboard/internal/application/profit"
	"github.com/dayhom/profit-dashboard/internal/application/report"
	"github.com/dayhom/profit-dashboard/internal/domain"
)

// ProfitHandler página /profit con el resumen de rentabilidad del backend.
type ProfitHandler struct {
	uc   *profit.UseCase
	auth *auth.AuthUseCase
	view *renderer
}

func newProfitHandler(uc *profit.UseCase, authUC *auth.AuthUseCase, view *renderer) *ProfitHandler {
	return &ProfitHandler{uc: uc, auth: authUC, view: view}
}

// Page GET /profit.
func (h *ProfitHandler) Page(c *fiber.Ctx) error {
	data := pageData{Title: "Rentabilidad", Session: h.auth.Session()}
	s, err := h.uc.Summary(c.Context())
	if err != nil {
		if domain.IsAuth(err) {
			return c.Redirect(loginPath, fiber.StatusSeeOther)
		}
		status, _ := statusFor(err)
		data.Error = domain.UserMessage(err)
		return h.view.render(c, status, "profit", data)
	}
	v := report.BuildSummaryView(s)
	data.Summary = &v
	return h.view.render(c, fiber.StatusOK, "profit", data)
}

// SKUCSV GET /profit/sku.csv.
func (h *ProfitHandler) SKUCSV(c *fiber.Ctx) error {
	s, err := h.uc.Summary(c.Context())
	if err != nil {
		return apiError(c, err)
	}
	var buf bytes.Buffer
	if err := report.ExportSKUCSV(s.SkuProfits, &buf); err != nil {
		return err
	}
	return sendDownload(c, report.SKUCSVFileName, report.CSVContentType, buf.Bytes())
}

// Summary godoc
// @Summary      Resumen de rentabilidad
// @Description  Totales y filas por SKU de GET /api/profit del backend, ya formateados.
// @Tags         profit
// @Produce      json
// @Success      200  {object}  dto.DataResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/profit [get]
func (h *ProfitHandler) Summary(c *fiber.Ctx) error {
	s, err := h.uc.Summary(c.Context())
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: report.BuildSummaryView(s)})
}
