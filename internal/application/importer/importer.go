// Package importer implementa la importación masiva por CSV (productos y
// proveedores) y la exportación de reportes de inventario en CSV y XLSX.
//
// Contrato de importación: cabecera fija por entidad, validación por fila,
// una fila inválida nunca aborta el resto, y el contexto puede cancelar el
// proceso entre filas (las filas ya importadas quedan).
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
	"github.com/jhoicas/stocklane-api/internal/infrastructure/metrics"
	"github.com/jhoicas/stocklane-api/pkg/logger"
)

// Cabeceras esperadas, en orden.
var (
	productHeader  = []string{"name", "sku", "category", "reorder_level", "unit_price"}
	supplierHeader = []string{"name", "email", "phone", "address", "product_types", "rating"}
)

// UseCase casos de uso de importación/exportación.
type UseCase struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(products repository.ProductRepository, suppliers repository.SupplierRepository, log *logger.Logger) *UseCase {
	return &UseCase{products: products, suppliers: suppliers, log: log}
}

// ImportProducts importa productos desde un CSV. Cada fila válida crea un
// producto con stock 0; un SKU ya existente en la empresa falla esa fila.
func (uc *UseCase) ImportProducts(ctx context.Context, p policy.Principal, r io.Reader) (*dto.ImportResponse, error) {
	if err := policy.Authorize(p, policy.ActionCreate, policy.Ref{
		Entity:    policy.EntityProduct,
		CompanyID: p.CompanyID,
	}); err != nil {
		return nil, err
	}
	return uc.importRows(ctx, r, productHeader, "product", func(ctx context.Context, record []string) error {
		name := strings.TrimSpace(record[0])
		sku := strings.TrimSpace(record[1])
		if name == "" || sku == "" {
			return fmt.Errorf("name y sku son obligatorios: %w", domain.ErrInvalidInput)
		}
		reorder, err := parseInt(record[3])
		if err != nil || reorder < 0 {
			return fmt.Errorf("reorder_level inválido %q: %w", record[3], domain.ErrInvalidInput)
		}
		price, err := parseDecimal(record[4])
		if err != nil || price.IsNegative() {
			return fmt.Errorf("unit_price inválido %q: %w", record[4], domain.ErrInvalidInput)
		}

		existing, err := uc.products.GetByCompanyAndSKU(ctx, p.CompanyID, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("sku %q: %w", sku, domain.ErrDuplicate)
		}
		now := time.Now()
		return uc.products.Create(ctx, &entity.Product{
			ID:           uuid.New().String(),
			CompanyID:    p.CompanyID,
			SKU:          sku,
			Name:         name,
			Category:     strings.TrimSpace(record[2]),
			UnitPrice:    price,
			ReorderLevel: reorder,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
}

// ImportSuppliers importa proveedores desde un CSV. product_types viene
// separado por ';' dentro de la celda; rating es opcional (1..5).
func (uc *UseCase) ImportSuppliers(ctx context.Context, p policy.Principal, r io.Reader) (*dto.ImportResponse, error) {
	if err := policy.Authorize(p, policy.ActionCreate, policy.Ref{
		Entity:    policy.EntitySupplier,
		CompanyID: p.CompanyID,
	}); err != nil {
		return nil, err
	}
	return uc.importRows(ctx, r, supplierHeader, "supplier", func(ctx context.Context, record []string) error {
		name := strings.TrimSpace(record[0])
		if name == "" {
			return fmt.Errorf("name es obligatorio: %w", domain.ErrInvalidInput)
		}
		var rating *int
		if s := strings.TrimSpace(record[5]); s != "" {
			n, err := parseInt(s)
			if err != nil || n < 1 || n > 5 {
				return fmt.Errorf("rating inválido %q: %w", s, domain.ErrInvalidInput)
			}
			v := int(n)
			rating = &v
		}
		var types []string
		for _, t := range strings.Split(record[4], ";") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		now := time.Now()
		return uc.suppliers.Create(ctx, &entity.Supplier{
			ID:        uuid.New().String(),
			CompanyID: p.CompanyID,
			Name:      name,
			ContactInfo: entity.ContactInfo{
				Email:   strings.TrimSpace(record[1]),
				Phone:   strings.TrimSpace(record[2]),
				Address: strings.TrimSpace(record[3]),
			},
			ProductTypes: types,
			Rating:       rating,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
}

// importRows recorre el CSV fila a fila. La cancelación del contexto se
// comprueba entre filas: lo ya importado queda y el resultado lo reporta.
func (uc *UseCase) importRows(ctx context.Context, r io.Reader, header []string, entityName string, apply func(context.Context, []string) error) (*dto.ImportResponse, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", domain.ErrInvalidInput)
	}
	if !headerMatches(first, header) {
		return nil, fmt.Errorf("cabecera esperada %v: %w", header, domain.ErrInvalidInput)
	}

	out := &dto.ImportResponse{}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			out.Aborted = true
			break
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			out.Failed++
			out.Errors = append(out.Errors, dto.ImportRowError{Line: line, Message: err.Error()})
			metrics.ImportRows.WithLabelValues(entityName, "failed").Inc()
			continue
		}
		if len(record) != len(header) {
			out.Failed++
			out.Errors = append(out.Errors, dto.ImportRowError{
				Line:    line,
				Message: fmt.Sprintf("se esperaban %d columnas, llegaron %d", len(header), len(record)),
			})
			metrics.ImportRows.WithLabelValues(entityName, "failed").Inc()
			continue
		}
		if err := apply(ctx, record); err != nil {
			out.Failed++
			out.Errors = append(out.Errors, dto.ImportRowError{Line: line, Message: err.Error()})
			metrics.ImportRows.WithLabelValues(entityName, "failed").Inc()
			continue
		}
		out.Imported++
		metrics.ImportRows.WithLabelValues(entityName, "imported").Inc()
	}

	uc.log.Info().
		Str("entity", entityName).
		Int("imported", out.Imported).
		Int("failed", out.Failed).
		Bool("aborted", out.Aborted).
		Msg("importación finalizada")
	return out, nil
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return false
		}
	}
	return true
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
