package dto

// SkuCostRequest alta o edición de un costo (formulario o JSON).
type SkuCostRequest struct {
	SKU       string `json:"sku" form:"sku"`
	CostPrice string `json:"cost_price" form:"cost_price"`
}

// SkuCostResponse costo guardado. CostPrice como texto decimal para no perder precisión.
type SkuCostResponse struct {
	SKU       string `json:"sku"`
	CostPrice string `json:"cost_price"`
}
