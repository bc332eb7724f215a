package repository

import (
	"context"

	"github.com/jhoicas/stocklane-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de
// compra (DIP). NextPONumber consume la secuencia global: el número asignado
// es único y nunca se reutiliza ni se muta.
type PurchaseOrderRepository interface {
	NextPONumber(ctx context.Context) (string, error)
	Create(ctx context.Context, po *entity.PurchaseOrder, items []*entity.PurchaseOrderItem) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetItems(ctx context.Context, purchaseOrderID string) ([]*entity.PurchaseOrderItem, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListByCompany(ctx context.Context, companyID string, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	SumTotalByCompany(ctx context.Context, companyID string) (string, error)
}
