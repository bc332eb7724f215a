package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
)

// QuoteUseCase casos de uso para cotizaciones de proveedor. Las observaciones
// son inmutables: solo alta y listados.
type QuoteUseCase struct {
	quotes    repository.SupplierQuoteRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(quotes repository.SupplierQuoteRepository, suppliers repository.SupplierRepository, products repository.ProductRepository) *QuoteUseCase {
	return &QuoteUseCase{quotes: quotes, suppliers: suppliers, products: products}
}

// Create registra una observación de precio. Proveedor y producto deben
// existir y pertenecer a la empresa del principal.
func (uc *QuoteUseCase) Create(ctx context.Context, p policy.Principal, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != product.CompanyID {
		return nil, domain.ErrInvalidInput
	}
	if err := authorize(p, policy.ActionCreate, policy.EntitySupplierQuote, supplier.CompanyID); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	quote := &entity.SupplierQuote{
		ID:         uuid.New().String(),
		CompanyID:  supplier.CompanyID,
		SupplierID: in.SupplierID,
		ProductID:  in.ProductID,
		Price:      in.Price,
		UserID:     p.UserID,
		CreatedAt:  time.Now(),
	}
	if err := uc.quotes.Create(ctx, quote); err != nil {
		return nil, err
	}
	return toQuoteResponse(quote), nil
}

// ListByProduct historial de precios de un producto.
func (uc *QuoteUseCase) ListByProduct(ctx context.Context, p policy.Principal, productID string, page dto.PageRequest) (*dto.QuoteListResponse, error) {
	page.DefaultPage()
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionRead, policy.EntitySupplierQuote, product.CompanyID); err != nil {
		return nil, err
	}
	list, err := uc.quotes.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return quoteList(list, page), nil
}

// ListBySupplier historial de precios ofrecidos por un proveedor.
func (uc *QuoteUseCase) ListBySupplier(ctx context.Context, p policy.Principal, supplierID string, page dto.PageRequest) (*dto.QuoteListResponse, error) {
	page.DefaultPage()
	supplier, err := uc.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionRead, policy.EntitySupplierQuote, supplier.CompanyID); err != nil {
		return nil, err
	}
	list, err := uc.quotes.ListBySupplier(ctx, supplierID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return quoteList(list, page), nil
}

func quoteList(list []*entity.SupplierQuote, page dto.PageRequest) *dto.QuoteListResponse {
	items := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		items = append(items, *toQuoteResponse(q))
	}
	return &dto.QuoteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}

func toQuoteResponse(q *entity.SupplierQuote) *dto.QuoteResponse {
	return &dto.QuoteResponse{
		ID:         q.ID,
		CompanyID:  q.CompanyID,
		SupplierID: q.SupplierID,
		ProductID:  q.ProductID,
		Price:      q.Price,
		UserID:     q.UserID,
		CreatedAt:  q.CreatedAt,
	}
}
