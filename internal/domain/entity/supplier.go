package entity

import "time"

// ContactInfo datos de contacto estructurados de un proveedor.
type ContactInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Supplier representa un proveedor de una empresa.
type Supplier struct {
	ID           string
	CompanyID    string
	Name         string
	ContactInfo  ContactInfo
	ProductTypes []string
	Rating       *int // 1..5, nil = sin calificar
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
