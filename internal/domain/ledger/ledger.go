// Package ledger define la proyección de stock sobre el historial de
// movimientos. El ledger (stock_movements) es el sistema de registro;
// Product.CurrentStock es una caché que debe coincidir siempre con
// ComputeStock sobre el historial completo del producto.
package ledger

import (
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
)

// Signed devuelve la cantidad firmada de un movimiento: positiva para in,
// negativa para out.
func Signed(m *entity.StockMovement) int64 {
	if m.Type == entity.MovementTypeOut {
		return -m.Quantity
	}
	return m.Quantity
}

// ComputeStock pliega el historial de movimientos en el stock actual.
// La suma es conmutativa: el orden de inserción de movimientos concurrentes
// no afecta el total.
func ComputeStock(movements []*entity.StockMovement) int64 {
	var total int64
	for _, m := range movements {
		total += Signed(m)
	}
	return total
}

// ValidateMovement valida tipo y cantidad de un movimiento antes de aplicarlo.
// quantity debe ser entero positivo. Una salida que deje el stock negativo es
// válida: el sistema no impone piso de no-negatividad.
func ValidateMovement(movementType string, quantity int64) error {
	if movementType != entity.MovementTypeIn && movementType != entity.MovementTypeOut {
		return domain.ErrInvalidInput
	}
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// IsLowStock es el predicado único de stock bajo: current_stock <= reorder_level
// (inclusive). Dashboard, alertas y exportes deben usar esta función, nunca
// reimplementar la comparación.
func IsLowStock(currentStock, reorderLevel int64) bool {
	return currentStock <= reorderLevel
}
