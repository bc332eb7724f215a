package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContactInfoDTO contacto estructurado de un proveedor.
type ContactInfoDTO struct {
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=200"`
}

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name         string         `json:"name" validate:"required,min=2,max=200"`
	ContactInfo  ContactInfoDTO `json:"contact_info"`
	ProductTypes []string       `json:"product_types" validate:"omitempty,dive,max=80"`
	Rating       *int           `json:"rating" validate:"omitempty,min=1,max=5"`
}

// UpdateSupplierRequest edición parcial de proveedor.
type UpdateSupplierRequest struct {
	Name         *string         `json:"name" validate:"omitempty,min=2,max=200"`
	ContactInfo  *ContactInfoDTO `json:"contact_info"`
	ProductTypes []string        `json:"product_types" validate:"omitempty,dive,max=80"`
	Rating       *int            `json:"rating" validate:"omitempty,min=1,max=5"`
}

// SupplierResponse representación pública de un proveedor.
type SupplierResponse struct {
	ID           string         `json:"id"`
	CompanyID    string         `json:"company_id"`
	Name         string         `json:"name"`
	ContactInfo  ContactInfoDTO `json:"contact_info"`
	ProductTypes []string       `json:"product_types,omitempty"`
	Rating       *int           `json:"rating,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SupplierListResponse listado paginado de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateQuoteRequest registro de una observación de precio.
type CreateQuoteRequest struct {
	SupplierID string          `json:"supplier_id" validate:"required,uuid4"`
	ProductID  string          `json:"product_id" validate:"required,uuid4"`
	Price      decimal.Decimal `json:"price"`
}

// QuoteResponse observación de precio inmutable.
type QuoteResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	SupplierID string          `json:"supplier_id"`
	ProductID  string          `json:"product_id"`
	Price      decimal.Decimal `json:"price"`
	UserID     string          `json:"user_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

// QuoteListResponse listado paginado de cotizaciones.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
