// Package wizard implementa el asistente de carga: subir órdenes → subir liquidación →
// ingresar costos por SKU → ver reporte. Es el único componente con estado de flujo.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dayhom/profit-dashboard/internal/application/ports"
	"github.com/dayhom/profit-dashboard/internal/application/report"
	"github.com/dayhom/profit-dashboard/internal/domain"
	"github.com/dayhom/profit-dashboard/internal/domain/entity"
	"github.com/dayhom/profit-dashboard/internal/domain/repository"
	"github.com/dayhom/profit-dashboard/pkg/logger"
)

const defaultUpsertConcurrency = 8

// State foto del asistente. Las copias devueltas por State() son independientes.
type State struct {
	Step               entity.WizardStep
	OrderFileName      string
	OrderSummary       *entity.OrderSummary
	SettlementFileName string
	SKUs               []string
	SKUCosts           map[string]string // SKU → costo tal como lo escribió el usuario ("" = sin costo)
	Report             *entity.ProfitReport
	ErrorMessage       string
	Busy               bool
}

// Deps dependencias del controlador.
type Deps struct {
	Uploads           ports.UploadAPI
	SKUs              ports.SkuAPI
	Profit            ports.ProfitAPI
	Reports           repository.ReportRepository
	Logger            *logger.Logger
	UpsertConcurrency int
}

// Controller máquina de estados del asistente. Seguro para uso concurrente: mientras una
// llamada al backend está en curso las demás transiciones devuelven domain.ErrBusy, y una
// respuesta que llega después de un Reset se descarta con domain.ErrStale.
type Controller struct {
	uploads ports.UploadAPI
	skus    ports.SkuAPI
	profit  ports.ProfitAPI
	reports repository.ReportRepository
	log     *logger.Logger
	limit   int

	mu    sync.Mutex
	state State
	busy  bool
	gen   uint64 // se incrementa en cada Reset
}

// NewController crea el controlador en Idle. Llamar Resume para recuperar el último reporte.
func NewController(d Deps) *Controller {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	limit := d.UpsertConcurrency
	if limit <= 0 {
		limit = defaultUpsertConcurrency
	}
	return &Controller{
		uploads: d.Uploads,
		skus:    d.SKUs,
		profit:  d.Profit,
		reports: d.Reports,
		log:     log.Component("wizard"),
		limit:   limit,
		state:   State{Step: entity.StepIdle},
	}
}

// State devuelve una copia del estado actual.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Resume deriva un paso seguro de lo persistido: con reporte guardado → ShowReport,
// si no → Idle. Nunca reanuda en un paso de carga sin archivo.
func (c *Controller) Resume() State {
	var (
		r    *entity.ProfitReport
		skus []string
		err  error
	)
	if c.reports != nil {
		r, skus, err = c.reports.LoadReport()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.busy = false
	c.state = State{Step: entity.StepIdle}
	switch {
	case err != nil:
		c.log.Warn().Err(err).Msg("no se pudo recuperar el último reporte, se inicia en idle")
	case r != nil:
		c.state.Step = entity.StepShowReport
		c.state.Report = r
		c.state.SKUs = skus
		c.log.Info().Int("skus", len(skus)).Msg("asistente reanudado con el último reporte")
	}
	return c.snapshot()
}

// Start Idle → UploadOrders.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkStep(entity.StepIdle); err != nil {
		return err
	}
	c.state.Step = entity.StepUploadOrders
	c.state.ErrorMessage = ""
	c.log.Info().Str("step", c.state.Step.String()).Msg("asistente iniciado")
	return nil
}

// UploadOrders UploadOrders → UploadSettlement guardando el OrderSummary.
func (c *Controller) UploadOrders(ctx context.Context, file *entity.UploadedFile) error {
	gen, err := c.begin(entity.StepUploadOrders)
	if err != nil {
		return err
	}
	if file == nil {
		return c.fail(gen, domain.NewValidationError("selecciona el archivo de órdenes"))
	}

	summary, err := c.uploads.UploadOrders(ctx, file)
	if err != nil {
		return c.fail(gen, fmt.Errorf("wizard: subir órdenes: %w", err))
	}

	return c.commit(gen, func(s *State) {
		s.OrderFileName = file.Name
		s.OrderSummary = summary
		s.Step = entity.StepUploadSettlement
	})
}

// UploadSettlement UploadSettlement → EnterCosts. Tras subir la liquidación pide los SKUs
// detectados y los costos ya guardados para precargar el formulario; un SKU sin costo
// queda en "" (no en 0) para que el usuario lo complete.
func (c *Controller) UploadSettlement(ctx context.Context, file *entity.UploadedFile) error {
	gen, err := c.begin(entity.StepUploadSettlement)
	if err != nil {
		return err
	}
	if file == nil {
		return c.fail(gen, domain.NewValidationError("selecciona el archivo de liquidación"))
	}

	if err := c.uploads.UploadSettlement(ctx, file); err != nil {
		return c.fail(gen, fmt.Errorf("wizard: subir liquidación: %w", err))
	}
	rawSKUs, err := c.skus.ListSKUs(ctx)
	if err != nil {
		return c.fail(gen, fmt.Errorf("wizard: listar SKUs: %w", err))
	}
	skus := entity.NormalizeSKUs(rawSKUs)

	stored, err := c.skus.ListSKUCosts(ctx)
	if err != nil {
		return c.fail(gen, fmt.Errorf("wizard: listar costos: %w", err))
	}
	known := make(map[string]string, len(stored))
	for _, e := range stored {
		known[entity.NormalizeSKU(e.SKU)] = e.CostPrice.String()
	}
	costs := make(map[string]string, len(skus))
	for _, sku := range skus {
		costs[sku] = known[sku]
	}

	return c.commit(gen, func(s *State) {
		s.SettlementFileName = file.Name
		s.SKUs = skus
		s.SKUCosts = costs
		s.Step = entity.StepEnterCosts
	})
}

// SetCost edita el costo de un SKU en EnterCosts (sin llamada de red).
func (c *Controller) SetCost(sku, value string) error {
	return c.SetCosts(map[string]string{sku: value})
}

// SetCosts edita varios costos a la vez. Un SKU desconocido invalida toda la edición.
func (c *Controller) SetCosts(values map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return domain.ErrBusy
	}
	if err := c.checkStep(entity.StepEnterCosts); err != nil {
		return err
	}
	normalized := make(map[string]string, len(values))
	for sku, v := range values {
		key := entity.NormalizeSKU(sku)
		if _, ok := c.state.SKUCosts[key]; !ok {
			return domain.NewValidationError(fmt.Sprintf("SKU desconocido: %s", sku))
		}
		normalized[key] = strings.TrimSpace(v)
	}
	for k, v := range normalized {
		c.state.SKUCosts[k] = v
	}
	return nil
}

// SubmitCosts EnterCosts → ShowReport. Valida todos los costos, los guarda en paralelo
// (una llamada por SKU, independientes entre sí) y solo si todas tienen éxito pide el
// reporte detallado. Cualquier fallo deja el asistente en EnterCosts con un único error.
func (c *Controller) SubmitCosts(ctx context.Context) error {
	gen, err := c.begin(entity.StepEnterCosts)
	if err != nil {
		return err
	}

	c.mu.Lock()
	skus := append([]string(nil), c.state.SKUs...)
	values := make(map[string]string, len(c.state.SKUCosts))
	for k, v := range c.state.SKUCosts {
		values[k] = v
	}
	c.mu.Unlock()

	entries, err := parseCosts(values)
	if err != nil {
		return c.fail(gen, err)
	}

	if err := c.upsertAll(ctx, entries); err != nil {
		return c.fail(gen, err)
	}
	if !c.current(gen) {
		return domain.ErrStale
	}

	raw, err := c.profit.GetDetailedReport(ctx)
	if err != nil {
		return c.fail(gen, fmt.Errorf("wizard: obtener reporte: %w", err))
	}
	rep, err := report.Normalize(raw)
	if err != nil {
		return c.fail(gen, err)
	}

	// Se persiste dentro de commit, bajo el lock y con la generación ya comprobada: un
	// Reset concurrente borra el reporte después, nunca antes.
	return c.commit(gen, func(s *State) {
		if c.reports != nil {
			if err := c.reports.SaveReport(rep, skus); err != nil {
				c.log.Error().Err(err).Msg("no se pudo persistir el reporte; se muestra igual")
			}
		}
		s.Report = rep
		s.Step = entity.StepShowReport
	})
}

// Reset vuelve a Idle desde cualquier paso, descarta las respuestas en vuelo y borra el
// reporte persistido. El borrado ocurre bajo el mismo lock que el guardado de SubmitCosts.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.busy = false
	prev := c.state.Step
	c.state = State{Step: entity.StepIdle}

	c.log.Info().Str("from", prev.String()).Msg("asistente reiniciado")
	if c.reports == nil {
		return nil
	}
	if err := c.reports.DeleteReport(); err != nil {
		return fmt.Errorf("wizard: borrar reporte: %w", err)
	}
	return nil
}

// Report devuelve el reporte mostrado y los SKUs conocidos, o domain.ErrNoReport.
func (c *Controller) Report() (*entity.ProfitReport, []string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Step != entity.StepShowReport || c.state.Report == nil {
		return nil, nil, domain.ErrNoReport
	}
	return c.state.Report, append([]string(nil), c.state.SKUs...), nil
}

// ── transiciones ─────────────────────────────────────────────────────────────

// begin marca el asistente como ocupado si está en el paso esperado.
func (c *Controller) begin(want entity.WizardStep) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return 0, domain.ErrBusy
	}
	if err := c.checkStep(want); err != nil {
		return 0, err
	}
	c.busy = true
	return c.gen, nil
}

// commit aplica el resultado exitoso si la generación no cambió.
func (c *Controller) commit(gen uint64, apply func(*State)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return domain.ErrStale
	}
	c.busy = false
	apply(&c.state)
	c.state.ErrorMessage = ""
	c.log.Info().Str("step", c.state.Step.String()).Msg("asistente avanza")
	return nil
}

// fail registra el error en el estado sin mover el paso.
func (c *Controller) fail(gen uint64, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug().Err(err).Msg("respuesta descartada tras reinicio")
		return domain.ErrStale
	}
	c.busy = false
	c.state.ErrorMessage = domain.UserMessage(err)
	c.log.Warn().Str("step", c.state.Step.String()).Err(err).Msg("paso del asistente falló")
	return err
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

func (c *Controller) checkStep(want entity.WizardStep) error {
	if c.state.Step != want {
		return fmt.Errorf("wizard: %w: se esperaba %s y el paso actual es %s",
			domain.ErrInvalidTransition, want, c.state.Step)
	}
	return nil
}

// snapshot copia profunda; requiere c.mu.
func (c *Controller) snapshot() State {
	s := c.state
	s.Busy = c.busy
	s.SKUs = append([]string(nil), c.state.SKUs...)
	if c.state.SKUCosts != nil {
		s.SKUCosts = make(map[string]string, len(c.state.SKUCosts))
		for k, v := range c.state.SKUCosts {
			s.SKUCosts[k] = v
		}
	}
	if c.state.OrderSummary != nil {
		sum := *c.state.OrderSummary
		s.OrderSummary = &sum
	}
	return s
}

// ── costos ───────────────────────────────────────────────────────────────────

// parseCosts exige un decimal >= 0 para cada SKU. Devuelve un único error de validación
// que nombra todos los SKUs con problemas.
func parseCosts(values map[string]string) ([]entity.SkuCostEntry, error) {
	skus := make([]string, 0, len(values))
	for sku := range values {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var (
		entries []entity.SkuCostEntry
		missing []string
		invalid []string
	)
	for _, sku := range skus {
		v := strings.TrimSpace(values[sku])
		if v == "" {
			missing = append(missing, sku)
			continue
		}
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			invalid = append(invalid, sku)
			continue
		}
		entries = append(entries, entity.SkuCostEntry{SKU: sku, CostPrice: d})
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "falta el costo de "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "costo inválido para "+strings.Join(invalid, ", "))
	}
	if len(parts) > 0 {
		return nil, domain.NewValidationError(strings.Join(parts, "; "))
	}
	return entries, nil
}

// upsertAll guarda los costos con concurrencia acotada. Cada guardado es independiente:
// un fallo no cancela los demás, y todos los fallos se reportan como un solo error.
func (c *Controller) upsertAll(ctx context.Context, entries []entity.SkuCostEntry) error {
	// errgroup.Group sin contexto no cancela a los demás: Wait espera a todos y devuelve
	// el primer error.
	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	g.SetLimit(c.limit)
	for _, e := range entries {
		g.Go(func() error {
			if err := c.skus.UpsertSKUCost(ctx, e); err != nil {
				failed.Add(1)
				c.log.Warn().Str("sku", e.SKU).Err(err).Msg("no se pudo guardar el costo")
				return err
			}
			return nil
		})
	}
	firstErr := g.Wait()
	if firstErr == nil {
		c.log.Info().Int("skus", len(entries)).Msg("costos guardados")
		return nil
	}
	n := int(failed.Load())
	msg := fmt.Sprintf("no se pudieron guardar %d de %d costos", n, len(entries))
	var apiErr *domain.APIError
	if errors.As(firstErr, &apiErr) {
		return &domain.APIError{
			Kind:    apiErr.Kind,
			Status:  apiErr.Status,
			Message: msg + ": " + domain.UserMessage(apiErr),
			Raw:     apiErr.Raw,
			Err:     firstErr,
		}
	}
	return fmt.Errorf("wizard: %s: %w", msg, firstErr)
}
