package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stocklane-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el ledger de
// movimientos (DIP). El ledger es append-only; DeleteBatch existe únicamente
// como rollback compensatorio de un lote parcialmente insertado.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.StockMovement, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByCompany(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	SumByProduct(ctx context.Context, productID string) (int64, error)
	ListByBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error)
	DeleteBatch(ctx context.Context, batchID string) (int64, error)
}
