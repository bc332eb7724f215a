// Package usecase contiene los casos de uso CRUD de las entidades del tenant
// (empresas, departamentos, perfiles, productos, proveedores, cotizaciones y
// órdenes de compra). Cada operación recibe el Principal explícito y pasa por
// el motor de políticas antes de tocar los repositorios.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/ledger"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
	"github.com/jhoicas/stocklane-api/internal/infrastructure/metrics"
)

// ProductUseCase casos de uso CRUD para productos. El stock nunca se edita
// aquí: solo cambia vía movimientos del ledger.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto en la empresa del principal con stock inicial 0.
// Un SKU repetido dentro de la empresa responde ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, p policy.Principal, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := authorize(p, policy.ActionCreate, policy.EntityProduct, p.CompanyID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCompanyAndSKU(ctx, p.CompanyID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    p.CompanyID,
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		UnitPrice:    in.UnitPrice,
		ReorderLevel: in.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto. El acceso cross-tenant se deniega con
// ErrForbidden; la capa HTTP lo reporta como 404 en lecturas.
func (uc *ProductUseCase) GetByID(ctx context.Context, p policy.Principal, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionRead, policy.EntityProduct, product.CompanyID); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update edición parcial. current_stock no es editable por esta vía.
func (uc *ProductUseCase) Update(ctx context.Context, p policy.Principal, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionUpdate, policy.EntityProduct, product.CompanyID); err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.UnitPrice != nil {
		product.UnitPrice = *in.UnitPrice
	}
	if in.ReorderLevel != nil {
		product.ReorderLevel = *in.ReorderLevel
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos dentro del alcance del principal, con filtros de
// categoría, búsqueda y stock bajo.
func (uc *ProductUseCase) List(ctx context.Context, p policy.Principal, in dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	scope := policy.Scope(p)
	filter := repository.ProductFilter{
		CompanyID: scope.CompanyID,
		Category:  in.Category,
		Search:    in.Search,
		LowStock:  in.LowStock,
	}
	list, err := uc.repo.List(ctx, filter, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, product := range list {
		items = append(items, *toProductResponse(product))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Delete elimina un producto. La política solo lo permite a company_owner y
// super_admin; el historial de movimientos del producto se conserva.
func (uc *ProductUseCase) Delete(ctx context.Context, p policy.Principal, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionDelete, policy.EntityProduct, product.CompanyID); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// authorize envuelve policy.Authorize con el contador de denegaciones.
func authorize(p policy.Principal, a policy.Action, e policy.Entity, companyID string) error {
	if err := policy.Authorize(p, a, policy.Ref{Entity: e, CompanyID: companyID}); err != nil {
		metrics.PolicyDenials.WithLabelValues(string(e), string(a)).Inc()
		return err
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		CompanyID:    p.CompanyID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		UnitPrice:    p.UnitPrice,
		CurrentStock: p.CurrentStock,
		ReorderLevel: p.ReorderLevel,
		LowStock:     ledger.IsLowStock(p.CurrentStock, p.ReorderLevel),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
