package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación del puerto PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, company_id, po_number, supplier_id, user_id, status, total_amount, expected_delivery, notes, created_at, updated_at`

// NextPONumber consume la secuencia global y formatea el número de orden.
// El número es único, estable y nunca se reutiliza aunque la orden se cancele.
func (r *PurchaseOrderRepo) NextPONumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('po_number_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next po number: %w", err)
	}
	return fmt.Sprintf("PO-%06d", n), nil
}

// Create persiste la orden y sus líneas. Debe llamarse dentro de una tx
// (TxRunner) para que orden y líneas sean atómicas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder, items []*entity.PurchaseOrderItem) error {
	query := `
		INSERT INTO purchase_orders (` + poColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.CompanyID, po.PONumber, po.SupplierID, po.UserID, po.Status,
		po.TotalAmount, po.ExpectedDelivery, po.Notes, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, it := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_items (id, purchase_order_id, product_id, quantity, unit_price, total_price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.PurchaseOrderID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice, it.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.q.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id).Scan(
		&po.ID, &po.CompanyID, &po.PONumber, &po.SupplierID, &po.UserID, &po.Status,
		&po.TotalAmount, &po.ExpectedDelivery, &po.Notes, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &po, nil
}

// GetItems obtiene las líneas de una orden.
func (r *PurchaseOrderRepo) GetItems(ctx context.Context, purchaseOrderID string) ([]*entity.PurchaseOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, product_id, quantity, unit_price, total_price, created_at
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY created_at`, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la orden. total_amount y po_number jamás se
// tocan después de la creación (snapshot).
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista órdenes de una empresa, con filtro opcional por estado.
func (r *PurchaseOrderRepo) ListByCompany(ctx context.Context, companyID string, status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $2`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.CompanyID, &po.PONumber, &po.SupplierID, &po.UserID,
			&po.Status, &po.TotalAmount, &po.ExpectedDelivery, &po.Notes, &po.CreatedAt, &po.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	return list, rows.Err()
}

// SumTotalByCompany suma el total de órdenes no canceladas (métrica de dashboard).
func (r *PurchaseOrderRepo) SumTotalByCompany(ctx context.Context, companyID string) (string, error) {
	var total string
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)::text
		FROM purchase_orders WHERE company_id = $1 AND status <> 'cancelled'`, companyID,
	).Scan(&total)
	if err != nil {
		return "0", fmt.Errorf("sum purchase orders: %w", err)
	}
	return total, nil
}
