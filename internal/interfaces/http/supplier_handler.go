package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/usecase"
)

// SupplierHandler maneja las peticiones HTTP para Supplier y sus cotizaciones.
type SupplierHandler struct {
	uc     *usecase.SupplierUseCase
	quotes *usecase.QuoteUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *usecase.SupplierUseCase, quotes *usecase.QuoteUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc, quotes: quotes}
}

// Create godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupplierRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener proveedor por ID
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proveedor"
// @Param        body  body  dto.UpdateSupplierRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.SupplierResponse
// @Router       /api/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSupplierRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Update(c.Context(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar proveedor (solo company_owner o super_admin)
// @Tags         suppliers
// @Security     Bearer
// @Param        id  path  string  true  "ID del proveedor"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetPrincipal(c), c.Params("id")); err != nil {
		return respondError(c, err, false)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar proveedores de la empresa
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.SupplierListResponse
// @Router       /api/suppliers [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListByCompany(c.Context(), GetPrincipal(c), page)
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}

// CreateQuote godoc
// @Summary      Registrar cotización de un proveedor (inmutable)
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuoteRequest  true  "Cotización"
// @Success      201   {object}  dto.QuoteResponse
// @Router       /api/quotes [post]
func (h *SupplierHandler) CreateQuote(c *fiber.Ctx) error {
	var in dto.CreateQuoteRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.quotes.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// QuotesByProduct godoc
// @Summary      Historial de precios de un producto
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true  "ID del producto"
// @Param        limit   query  int     false "Límite"  default(20)
// @Param        offset  query  int     false "Offset"  default(0)
// @Success      200  {object}  dto.QuoteListResponse
// @Router       /api/products/{id}/quotes [get]
func (h *SupplierHandler) QuotesByProduct(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.quotes.ListByProduct(c.Context(), GetPrincipal(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}

// QuotesBySupplier godoc
// @Summary      Cotizaciones emitidas por un proveedor
// @Tags         quotes
// @Security     Bearer
// @Produce     json
// @Param        id      path   string  true  "ID del proveedor"
// @Param        limit   query  int     false "Límite"  default(20)
// @Param        offset  query  int     false "Offset"  default(0)
// @Success      200  {object}  dto.QuoteListResponse
// @Router       /api/suppliers/{id}/quotes [get]
func (h *SupplierHandler) QuotesBySupplier(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.quotes.ListBySupplier(c.Context(), GetPrincipal(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}
