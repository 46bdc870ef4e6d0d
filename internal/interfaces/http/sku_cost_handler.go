package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dayhom/profit-dashboard/internal/application/auth"
	"github.com/dayhom/profit-dashboard/internal/application/dto"
	"github.com/dayhom/profit-dashboard/internal/application/skucost"
	"github.com/dayhom/profit-dashboard/internal/domain"
)

// SkuCostHandler página de costos por SKU.
type SkuCostHandler struct {
	uc   *skucost.UseCase
	auth *auth.AuthUseCase
	view *renderer
}

func newSkuCostHandler(uc *skucost.UseCase, authUC *auth.AuthUseCase, view *renderer) *SkuCostHandler {
	return &SkuCostHandler{uc: uc, auth: authUC, view: view}
}

// Page GET /sku-cost.
func (h *SkuCostHandler) Page(c *fiber.Ctx) error {
	data := pageData{Title: "Costos por SKU", Session: h.auth.Session()}
	if c.Query("saved") != "" {
		data.Notice = "Costo guardado para " + c.Query("saved") + "."
	}
	return h.list(c, fiber.StatusOK, data)
}

// Save POST /sku-cost (campos sku y cost_price).
func (h *SkuCostHandler) Save(c *fiber.Ctx) error {
	var in dto.SkuCostRequest
	if err := c.BodyParser(&in); err != nil {
		return h.list(c, fiber.StatusBadRequest, pageData{Title: "Costos por SKU", Session: h.auth.Session(), Error: "formulario inválido"})
	}
	entry, err := h.uc.Save(c.Context(), in.SKU, in.CostPrice)
	if err != nil {
		if domain.IsAuth(err) {
			return c.Redirect(loginPath, fiber.StatusSeeOther)
		}
		status, _ := statusFor(err)
		return h.list(c, status, pageData{
			Title:   "Costos por SKU",
			Session: h.auth.Session(),
			Error:   domain.UserMessage(err),
			Form:    map[string]string{"sku": in.SKU, "cost_price": in.CostPrice},
		})
	}
	return c.Redirect("/sku-cost?saved="+entry.SKU, fiber.StatusSeeOther)
}

// List godoc
// @Summary      Costos guardados
// @Tags         sku-cost
// @Produce      json
// @Success      200  {object}  dto.DataResponse{data=[]dto.SkuCostResponse}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sku-costs [get]
func (h *SkuCostHandler) List(c *fiber.Ctx) error {
	entries, err := h.uc.List(c.Context())
	if err != nil {
		return apiError(c, err)
	}
	out := make([]dto.SkuCostResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.SkuCostResponse{SKU: e.SKU, CostPrice: e.CostPrice.String()})
	}
	return c.JSON(dto.DataResponse{Data: out})
}

// Upsert godoc
// @Summary      Guardar costo de un SKU
// @Tags         sku-cost
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SkuCostRequest  true  "SKU y costo"
// @Success      200   {object}  dto.DataResponse{data=dto.SkuCostResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/sku-costs [put]
func (h *SkuCostHandler) Upsert(c *fiber.Ctx) error {
	var in dto.SkuCostRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.Save(c.Context(), in.SKU, in.CostPrice)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(dto.DataResponse{Data: dto.SkuCostResponse{SKU: entry.SKU, CostPrice: entry.CostPrice.String()}})
}

func (h *SkuCostHandler) list(c *fiber.Ctx, status int, data pageData) error {
	entries, err := h.uc.List(c.Context())
	if err != nil {
		if domain.IsAuth(err) {
			return c.Redirect(loginPath, fiber.StatusSeeOther)
		}
		if data.Error == "" {
			data.Error = domain.UserMessage(err)
		}
		if status == fiber.StatusOK {
			status, _ = statusFor(err)
		}
	}
	data.Costs = entries
	return h.view.render(c, status, "sku_cost", data)
}
