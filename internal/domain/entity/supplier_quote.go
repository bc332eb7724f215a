package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierQuote es una observación puntual de precio de un proveedor para un
// producto. Inmutable una vez creada.
type SupplierQuote struct {
	ID         string
	CompanyID  string
	SupplierID string
	ProductID  string
	Price      decimal.Decimal
	UserID     string
	CreatedAt  time.Time
}
