package inventory

import (
	"context"

	"github.com/jhoicas/stocklane-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con repositorios de inventario atados a una
// única transacción. Es el único camino por el que el ledger y la caché
// current_stock se modifican juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
