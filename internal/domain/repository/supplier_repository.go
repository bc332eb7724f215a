package repository

import (
	"context"

	"github.com/jhoicas/stocklane-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id string) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Supplier, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
}

// SupplierQuoteRepository puerto para observaciones de precio (inmutables).
type SupplierQuoteRepository interface {
	Create(ctx context.Context, quote *entity.SupplierQuote) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.SupplierQuote, error)
	ListBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]*entity.SupplierQuote, error)
}
