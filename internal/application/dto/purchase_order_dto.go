package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// POItemRequest línea de una orden de compra.
type POItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	Quantity  int64           `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePORequest alta de orden de compra. El total se calcula en el servidor
// como Σ quantity × unit_price y queda congelado.
type CreatePORequest struct {
	SupplierID       string          `json:"supplier_id" validate:"required,uuid4"`
	Items            []POItemRequest `json:"items" validate:"required,min=1,dive"`
	ExpectedDelivery *time.Time      `json:"expected_delivery"`
	Notes            string          `json:"notes" validate:"omitempty,max=500"`
}

// UpdatePOStatusRequest transición de estado de la orden.
type UpdatePOStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved sent received cancelled"`
}

// ListPORequest filtros de listado de órdenes.
type ListPORequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending approved sent received cancelled"`
}

// POItemResponse línea de orden con el total calculado.
type POItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// POResponse representación pública de una orden de compra.
type POResponse struct {
	ID               string           `json:"id"`
	CompanyID        string           `json:"company_id"`
	PONumber         string           `json:"po_number"`
	SupplierID       string           `json:"supplier_id"`
	UserID           string           `json:"user_id"`
	Status           string           `json:"status"`
	TotalAmount      decimal.Decimal  `json:"total_amount"`
	ExpectedDelivery *time.Time       `json:"expected_delivery,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Items            []POItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// POListResponse listado paginado de órdenes.
type POListResponse struct {
	Items []POResponse `json:"items"`
	Page  PageResponse `json:"page"`
}
