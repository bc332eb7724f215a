package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/ledger"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
)

// Columnas del reporte de inventario, compartidas por CSV y XLSX.
var exportHeader = []string{"sku", "name", "category", "current_stock", "reorder_level", "unit_price", "low_stock"}

// Tope de filas por exporte; suficiente para cualquier catálogo real del plan.
const exportLimit = 10000

// ExportInventoryCSV exporta el inventario de la empresa del principal como
// CSV. Con lowStockOnly solo incluye productos en nivel de reorden.
func (uc *UseCase) ExportInventoryCSV(ctx context.Context, p policy.Principal, lowStockOnly bool) ([]byte, error) {
	products, err := uc.exportRows(ctx, p, lowStockOnly)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("escribir cabecera: %w", err)
	}
	for _, product := range products {
		record := []string{
			product.SKU,
			product.Name,
			product.Category,
			strconv.FormatInt(product.CurrentStock, 10),
			strconv.FormatInt(product.ReorderLevel, 10),
			product.UnitPrice.String(),
			strconv.FormatBool(ledger.IsLowStock(product.CurrentStock, product.ReorderLevel)),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("escribir fila: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportInventoryXLSX exporta el mismo reporte como libro XLSX.
func (uc *UseCase) ExportInventoryXLSX(ctx context.Context, p policy.Principal, lowStockOnly bool) ([]byte, error) {
	products, err := uc.exportRows(ctx, p, lowStockOnly)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Inventario"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("escribir cabecera: %w", err)
	}
	for i, product := range products {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			product.SKU,
			product.Name,
			product.Category,
			product.CurrentStock,
			product.ReorderLevel,
			product.UnitPrice.String(),
			ledger.IsLowStock(product.CurrentStock, product.ReorderLevel),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("escribir fila %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (uc *UseCase) exportRows(ctx context.Context, p policy.Principal, lowStockOnly bool) ([]*entity.Product, error) {
	scope := policy.Scope(p)
	if scope.All {
		return nil, domain.ErrInvalidInput
	}
	if err := policy.Authorize(p, policy.ActionRead, policy.Ref{
		Entity:    policy.EntityProduct,
		CompanyID: scope.CompanyID,
	}); err != nil {
		return nil, err
	}
	return uc.products.List(ctx, repository.ProductFilter{
		CompanyID: scope.CompanyID,
		LowStock:  lowStockOnly,
	}, exportLimit, 0)
}
