package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/importer"
)

// ImportHandler maneja importaciones CSV y exportes de inventario.
type ImportHandler struct {
	uc *importer.UseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *importer.UseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// ImportProducts godoc
// @Summary      Importar productos desde CSV (multipart, campo "file")
// @Description  Cabecera: name,sku,category,reorder_level,unit_price. Una fila inválida no aborta el resto.
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *ImportHandler) ImportProducts(c *fiber.Ctx) error {
	r, ok := fileReader(c)
	if !ok {
		return nil
	}
	out, err := h.uc.ImportProducts(c.Context(), GetPrincipal(c), r)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(out)
}

// ImportSuppliers godoc
// @Summary      Importar proveedores desde CSV (multipart, campo "file")
// @Description  Cabecera: name,email,phone,address,product_types,rating. product_types separado por ';'.
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/suppliers/import [post]
func (h *ImportHandler) ImportSuppliers(c *fiber.Ctx) error {
	r, ok := fileReader(c)
	if !ok {
		return nil
	}
	out, err := h.uc.ImportSuppliers(c.Context(), GetPrincipal(c), r)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(out)
}

// ExportInventory godoc
// @Summary      Exportar inventario (format=csv|xlsx, low_stock=true para solo reorden)
// @Tags         imports
// @Security     Bearer
// @Produce      application/octet-stream
// @Param        format     query  string  false  "csv o xlsx"  default(csv)
// @Param        low_stock  query  bool    false  "Solo productos en nivel de reorden"
// @Success      200  {file}  binary
// @Router       /api/products/export [get]
func (h *ImportHandler) ExportInventory(c *fiber.Ctx) error {
	lowStock := c.QueryBool("low_stock")
	p := GetPrincipal(c)

	switch c.Query("format", "csv") {
	case "xlsx":
		data, err := h.uc.ExportInventoryXLSX(c.Context(), p, lowStock)
		if err != nil {
			return respondError(c, err, true)
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.xlsx"`)
		return c.Send(data)
	case "csv":
		data, err := h.uc.ExportInventoryCSV(c.Context(), p, lowStock)
		if err != nil {
			return respondError(c, err, true)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.csv"`)
		return c.Send(data)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser csv o xlsx"})
	}
}

// fileReader abre el archivo multipart "file" del request. Devuelve false si
// ya respondió un 400.
func fileReader(c *fiber.Ctx) (*bytes.Reader, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "se requiere el archivo en el campo file"})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo abrir el archivo"})
		return nil, false
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(f); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
		return nil, false
	}
	return bytes.NewReader(buf.Bytes()), true
}
