package http

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dayhom/profit-dashboard/internal/application/auth"
	"github.com/dayhom/profit-dashboard/internal/application/dto"
	"github.com/dayhom/profit-dashboard/internal/application/profit"
	"github.com/dayhom/profit-dashboard/internal/application/report"
	"github.com/dayhom/profit-dashboard/internal/application/wizard"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
	"github.com/dayhom/profit-dashboard/internal/infrastructure/csvfile"
	"github.com/dayhom/profit-dashboard/pkg/logger"
)

const latestProfitTimeout = 3 * time.Second

var stepLabels = []string{"Inicio", "Órdenes", "Liquidación", "Costos", "Reporte"}

// WizardHandler dashboard del asistente, sus formularios y las descargas del reporte.
type WizardHandler struct {
	wiz       *wizard.Controller
	auth      *auth.AuthUseCase
	profit    *profit.UseCase
	view      *renderer
	log       *logger.Logger
	maxUpload int64
}

func newWizardHandler(deps RouterDeps, view *renderer) *WizardHandler {
	return &WizardHandler{
		wiz:       deps.Wizard,
		auth:      deps.AuthUC,
		profit:    deps.Profit,
		view:      view,
		log:       deps.Logger.Component("http"),
		maxUpload: deps.MaxUploadBytes,
	}
}

// stepItem paso de la barra de progreso.
type stepItem struct {
	Label  string
	Done   bool
	Active bool
}

type costRow struct {
	SKU   string
	Value string
}

// wizardView lo que el dashboard necesita del asistente.
type wizardView struct {
	Step         string
	Steps        []stepItem
	Busy         bool
	Error        string
	OrderFile    string
	OrderSummary *dto.OrderSummaryDTO
	Settlement   string
	Costs        []costRow
	Report       *report.View
	LatestProfit string
}

// Dashboard GET /.
func (h *WizardHandler) Dashboard(c *fiber.Ctx) error {
	return h.renderDashboard(c, fiber.StatusOK, "")
}

// Start POST /wizard/start.
func (h *WizardHandler) Start(c *fiber.Ctx) error {
	return h.after(c, h.wiz.Start())
}

// Orders POST /wizard/orders (multipart, campo "file").
func (h *WizardHandler) Orders(c *fiber.Ctx) error {
	file, err := h.formCSV(c)
	if err != nil {
		return h.renderDashboard(c, fiber.StatusBadRequest, domain.UserMessage(err))
	}
	return h.after(c, h.wiz.UploadOrders(c.Context(), file))
}

// Settlement POST /wizard/settlement (multipart, campo "file").
func (h *WizardHandler) Settlement(c *fiber.Ctx) error {
	file, err := h.formCSV(c)
	if err != nil {
		return h.renderDashboard(c, fiber.StatusBadRequest, domain.UserMessage(err))
	}
	return h.after(c, h.wiz.UploadSettlement(c.Context(), file))
}

// Costs POST /wizard/costs. Campos "cost[SKU]"; guarda los valores y envía.
func (h *WizardHandler) Costs(c *fiber.Ctx) error {
	values := map[string]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if strings.HasPrefix(key, "cost[") && strings.HasSuffix(key, "]") {
			values[key[len("cost["):len(key)-1]] = string(v)
		}
	})
	if err := h.wiz.SetCosts(values); err != nil {
		return h.after(c, err)
	}
	return h.after(c, h.wiz.SubmitCosts(c.Context()))
}

// Reset POST /wizard/reset.
func (h *WizardHandler) Reset(c *fiber.Ctx) error {
	return h.after(c, h.wiz.Reset())
}

// SKUCSV GET /report/sku.csv.
func (h *WizardHandler) SKUCSV(c *fiber.Ctx) error {
	r, _, err := h.wiz.Report()
	if err != nil {
		return apiError(c, err)
	}
	var buf bytes.Buffer
	if err := report.ExportSKUCSV(r.SkuWiseDetails, &buf); err != nil {
		return err
	}
	return sendDownload(c, report.SKUCSVFileName, report.CSVContentType, buf.Bytes())
}

// DetailedCSV GET /report/sku-detailed.csv.
func (h *WizardHandler) DetailedCSV(c *fiber.Ctx) error {
	r, _, err := h.wiz.Report()
	if err != nil {
		return apiError(c, err)
	}
	var buf bytes.Buffer
	if err := report.ExportDetailedSKUCSV(r.SkuWiseDetails, &buf); err != nil {
		return err
	}
	return sendDownload(c, report.DetailedCSVFileName, report.CSVContentType, buf.Bytes())
}

// PrintPDF GET /report/print.pdf.
func (h *WizardHandler) PrintPDF(c *fiber.Ctx) error {
	r, skus, err := h.wiz.Report()
	if err != nil {
		return apiError(c, err)
	}
	doc, name, err := h.profit.PrintablePDF(c.Context(), r, skus)
	if err != nil {
		return err
	}
	return sendDownload(c, name, "application/pdf", doc)
}

// State godoc
// @Summary      Estado del asistente
// @Tags         wizard
// @Produce      json
// @Success      200  {object}  dto.DataResponse{data=dto.WizardStateResponse}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/wizard [get]
func (h *WizardHandler) State(c *fiber.Ctx) error {
	return c.JSON(dto.DataResponse{Data: toWizardDTO(h.wiz.State())})
}

// after resuelve la respuesta de una transición: éxito → PRG al dashboard; error de
// autenticación → login; cualquier otro → dashboard con el mensaje.
func (h *WizardHandler) after(c *fiber.Ctx, err error) error {
	if err == nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	if domain.IsAuth(err) || !h.auth.IsLoggedIn() {
		return c.Redirect(loginPath, fiber.StatusSeeOther)
	}
	status, _ := statusFor(err)
	return h.renderDashboard(c, status, domain.UserMessage(err))
}

func (h *WizardHandler) renderDashboard(c *fiber.Ctx, status int, msg string) error {
	st := h.wiz.State()
	v := buildWizardView(st)
	if msg != "" {
		v.Error = msg
	}
	if st.Step == entity.StepIdle {
		v.LatestProfit = h.latestProfit(c.Context())
	}
	return h.view.render(c, status, "dashboard", pageData{
		Title:   "Dashboard",
		Session: h.auth.Session(),
		Wizard:  v,
	})
}

// latestProfit ganancia total del último cálculo del backend para la insignia del
// dashboard. Es opcional: cualquier fallo se omite.
func (h *WizardHandler) latestProfit(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, latestProfitTimeout)
	defer cancel()
	s, err := h.profit.Summary(ctx)
	if err != nil {
		h.log.Debug().Err(err).Msg("sin ganancia reciente para el dashboard")
		return ""
	}
	if s.TotalRevenue.IsZero() && s.TotalProfit.IsZero() {
		return ""
	}
	return report.FormatCurrency(s.TotalProfit)
}

func (h *WizardHandler) formCSV(c *fiber.Ctx) (*entity.UploadedFile, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, domain.NewValidationError("selecciona un archivo CSV")
	}
	return csvfile.FromMultipart(fh, h.maxUpload)
}

func buildWizardView(st wizard.State) *wizardView {
	v := &wizardView{
		Step:       st.Step.String(),
		Busy:       st.Busy,
		Error:      st.ErrorMessage,
		OrderFile:  st.OrderFileName,
		Settlement: st.SettlementFileName,
	}
	for i, label := range stepLabels {
		v.Steps = append(v.Steps, stepItem{
			Label:  label,
			Done:   i < int(st.Step),
			Active: i == int(st.Step),
		})
	}
	if st.OrderSummary != nil {
		v.OrderSummary = toOrderSummaryDTO(st.OrderSummary)
	}
	for _, sku := range st.SKUs {
		v.Costs = append(v.Costs, costRow{SKU: sku, Value: st.SKUCosts[sku]})
	}
	if st.Step == entity.StepShowReport && st.Report != nil {
		rv := report.BuildView(st.Report, st.SKUs)
		v.Report = &rv
	}
	return v
}

func toOrderSummaryDTO(s *entity.OrderSummary) *dto.OrderSummaryDTO {
	return &dto.OrderSummaryDTO{
		FileName:    s.FileName,
		TotalOrders: s.TotalOrders,
		TotalSales:  report.FormatCurrency(s.TotalSales),
		UniqueSKUs:  s.UniqueSKUs,
		DateFrom:    report.FormatDate(s.DateFrom),
		DateTo:      report.FormatDate(s.DateTo),
	}
}

func toWizardDTO(st wizard.State) dto.WizardStateResponse {
	out := dto.WizardStateResponse{
		Step:               st.Step.String(),
		Busy:               st.Busy,
		ErrorMessage:       st.ErrorMessage,
		OrderFileName:      st.OrderFileName,
		SettlementFileName: st.SettlementFileName,
		SKUs:               st.SKUs,
		SKUCosts:           st.SKUCosts,
	}
	if out.SKUs == nil {
		out.SKUs = []string{}
	}
	if st.OrderSummary != nil {
		out.OrderSummary = toOrderSummaryDTO(st.OrderSummary)
	}
	if st.Report != nil {
		out.Report = &dto.ReportHeadlineDTO{
			TotalSales:   report.FormatCurrency(st.Report.TotalSales),
			Profit:       report.FormatCurrency(st.Report.Profit),
			ProfitMargin: report.FormatPercentage(st.Report.ProfitMargin),
			DateFrom:     report.FormatDate(st.Report.DateFrom),
			DateTo:       report.FormatDate(st.Report.DateTo),
			SKUCount:     len(st.Report.SkuWiseDetails),
		}
	}
	return out
}

func sendDownload(c *fiber.Ctx, name, contentType string, body []byte) error {
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}
