package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto. El stock inicial siempre es 0; las
// existencias solo cambian vía movimientos.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=64"`
	Name         string          `json:"name" validate:"required,min=2,max=200"`
	Description  string          `json:"description" validate:"omitempty,max=500"`
	Category     string          `json:"category" validate:"omitempty,max=80"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ReorderLevel int64           `json:"reorder_level" validate:"omitempty,min=0"`
}

// UpdateProductRequest edición parcial. No permite tocar current_stock.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=500"`
	Category     *string          `json:"category" validate:"omitempty,max=80"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	ReorderLevel *int64           `json:"reorder_level" validate:"omitempty,min=0"`
}

// ListProductsRequest filtros de listado.
type ListProductsRequest struct {
	PageRequest
	Category string `query:"category"`
	Search   string `query:"search"`
	LowStock bool   `query:"low_stock"`
}

// ProductResponse representación pública de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"company_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CurrentStock int64           `json:"current_stock"`
	ReorderLevel int64           `json:"reorder_level"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
