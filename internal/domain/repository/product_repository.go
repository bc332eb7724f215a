package repository

import (
	"context"

	"github.com/jhoicas/stocklane-api/internal/domain/entity"
)

// ProductFilter recorte para listados de productos.
type ProductFilter struct {
	CompanyID string // vacío = sin recorte (solo super_admin)
	Category  string
	Search    string // busca en name y sku
	LowStock  bool   // solo productos con current_stock <= reorder_level
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// AdjustStock y el insert del movimiento correspondiente deben ejecutarse
// dentro de la misma transacción (ver inventory.TxRunner).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	AdjustStock(ctx context.Context, productID string, delta int64) error
	SetStock(ctx context.Context, productID string, stock int64) error
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int, error)
	Delete(ctx context.Context, id string) error
}
