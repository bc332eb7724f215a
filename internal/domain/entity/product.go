package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// CurrentStock es una proyección cacheada del ledger de movimientos: siempre debe
// ser igual a la suma firmada de los StockMovement del producto. Nunca se muta
// directamente; solo a través de ApplyMovement (misma transacción que el ledger).
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // único por empresa
	Name         string
	Description  string
	Category     string
	UnitPrice    decimal.Decimal
	CurrentStock int64
	ReorderLevel int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
