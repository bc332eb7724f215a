package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
)

var _ repository.SupplierQuoteRepository = (*SupplierQuoteRepo)(nil)

// SupplierQuoteRepo implementación del puerto SupplierQuoteRepository.
// Las cotizaciones son inmutables: solo insert y lectura.
type SupplierQuoteRepo struct {
	q Querier
}

// NewSupplierQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierQuoteRepository(q Querier) *SupplierQuoteRepo {
	return &SupplierQuoteRepo{q: q}
}

const quoteColumns = `id, company_id, supplier_id, product_id, price, user_id, created_at`

// Create persiste una observación de precio.
func (r *SupplierQuoteRepo) Create(ctx context.Context, quote *entity.SupplierQuote) error {
	query := `
		INSERT INTO supplier_quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		quote.ID, quote.CompanyID, quote.SupplierID, quote.ProductID, quote.Price,
		quote.UserID, quote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert supplier quote: %w", err)
	}
	return nil
}

// ListByProduct lista cotizaciones de un producto, más recientes primero.
func (r *SupplierQuoteRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.SupplierQuote, error) {
	return r.list(ctx, "product_id", productID, limit, offset)
}

// ListBySupplier lista cotizaciones de un proveedor, más recientes primero.
func (r *SupplierQuoteRepo) ListBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]*entity.SupplierQuote, error) {
	return r.list(ctx, "supplier_id", supplierID, limit, offset)
}

func (r *SupplierQuoteRepo) list(ctx context.Context, column, value string, limit, offset int) ([]*entity.SupplierQuote, error) {
	query := `SELECT ` + quoteColumns + ` FROM supplier_quotes WHERE ` + column + ` = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, value, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list supplier quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierQuote
	for rows.Next() {
		var q entity.SupplierQuote
		if err := rows.Scan(&q.ID, &q.CompanyID, &q.SupplierID, &q.ProductID, &q.Price,
			&q.UserID, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier quote: %w", err)
		}
		list = append(list, &q)
	}
	return list, rows.Err()
}
