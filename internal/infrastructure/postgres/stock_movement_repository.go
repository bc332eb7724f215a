package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del puerto del ledger sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, product_id, type, quantity, notes, user_id, batch_id, idempotency_key, created_at`

// Create inserta un movimiento en el ledger. Una idempotency_key repetida
// dispara el índice único parcial y se reporta como ErrDuplicateMovement.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.ProductID, m.Type, m.Quantity, m.Notes, m.UserID,
		m.BatchID, m.IdempotencyKey, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateMovement
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByIdempotencyKey busca un movimiento por clave de idempotencia dentro de la empresa.
func (r *StockMovementRepo) GetByIdempotencyKey(ctx context.Context, companyID, key string) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := r.q.QueryRow(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE company_id = $1 AND idempotency_key = $2`,
		companyID, key,
	).Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.Type, &m.Quantity, &m.Notes, &m.UserID,
		&m.BatchID, &m.IdempotencyKey, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement by idempotency key: %w", err)
	}
	return &m, nil
}

// ListByProduct lista el historial de un producto, opcionalmente acotado por fechas.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(ctx, "product_id", productID, from, to, limit, offset)
}

// ListByCompany lista el historial de una empresa, opcionalmente acotado por fechas.
func (r *StockMovementRepo) ListByCompany(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(ctx, "company_id", companyID, from, to, limit, offset)
}

func (r *StockMovementRepo) list(ctx context.Context, column, value string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE ` + column + ` = $1`
	args := []any{value}
	if from != nil {
		args = append(args, *from)
		query += " AND created_at >= $" + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += " AND created_at <= $" + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.Type, &m.Quantity, &m.Notes,
			&m.UserID, &m.BatchID, &m.IdempotencyKey, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProduct calcula el stock real plegando el ledger en SQL
// (Σ in − Σ out). Es la fuente de verdad para reconciliar la caché.
func (r *StockMovementRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = 'in' THEN quantity ELSE -quantity END), 0)
		FROM stock_movements WHERE product_id = $1`, productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return total, nil
}

// ListByBatch lista los movimientos de un lote en orden de inserción.
func (r *StockMovementRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE batch_id = $1 ORDER BY created_at`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list batch movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.Type, &m.Quantity, &m.Notes,
			&m.UserID, &m.BatchID, &m.IdempotencyKey, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DeleteBatch elimina los movimientos de un lote. Solo se usa como rollback
// compensatorio cuando un lote quedó parcialmente insertado fuera de una tx.
func (r *StockMovementRepo) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE batch_id = $1`, batchID)
	if err != nil {
		return 0, fmt.Errorf("delete batch: %w", err)
	}
	return tag.RowsAffected(), nil
}
