package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// StockMovement es el evento del ledger de inventario: append-only, nunca se
// actualiza ni elimina en operación normal (la única excepción es el rollback
// compensatorio de un lote parcialmente insertado, por BatchID).
type StockMovement struct {
	ID             string
	CompanyID      string
	ProductID      string
	Type           string // in | out
	Quantity       int64  // siempre > 0; el signo lo da Type
	Notes          string
	UserID         string
	BatchID        *string // correlación de operaciones masivas (todo-o-nada)
	IdempotencyKey *string // clave generada por el cliente para reintentos seguros
	CreatedAt      time.Time
}
