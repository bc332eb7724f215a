package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/inventory"
)

// StockHandler maneja las peticiones HTTP del ledger de inventario.
type StockHandler struct {
	uc *inventory.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Apply godoc
// @Summary      Registrar un movimiento de inventario
// @Description  Inserta en el ledger y ajusta current_stock en la misma transacción. Con idempotency_key repetida responde el movimiento original con replayed=true.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.ApplyMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyMovementRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Apply(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err, false)
	}
	status := fiber.StatusCreated
	if out.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(out)
}

// ApplyBulk godoc
// @Summary      Registrar un lote de movimientos (todo-o-nada)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkMovementRequest  true  "Lote de movimientos"
// @Success      201   {object}  dto.BulkMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/movements/bulk [post]
func (h *StockHandler) ApplyBulk(c *fiber.Ctx) error {
	var in dto.BulkMovementRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.ApplyBulk(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RollbackBatch godoc
// @Summary      Revertir un lote y reconciliar el stock afectado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        batch_id  path  string  true  "ID del lote"
// @Success      200  {object}  map[string]int64
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/batches/{batch_id} [delete]
func (h *StockHandler) RollbackBatch(c *fiber.Ctx) error {
	deleted, err := h.uc.RollbackBatch(c.Context(), GetPrincipal(c), c.Params("batch_id"))
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// History godoc
// @Summary      Historial de movimientos (por producto o por empresa)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "ID del producto"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	in := dto.MovementHistoryRequest{
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)},
		ProductID:   c.Query("product_id"),
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		in.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		in.To = &t
	}
	out, err := h.uc.History(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}

// Recompute godoc
// @Summary      Reconciliar current_stock contra el ledger
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.RecomputeStockResponse
// @Router       /api/products/{id}/recompute-stock [post]
func (h *StockHandler) Recompute(c *fiber.Ctx) error {
	out, err := h.uc.RecomputeStock(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(out)
}
