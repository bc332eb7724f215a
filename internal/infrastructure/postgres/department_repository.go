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

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implementación del puerto DepartmentRepository sobre PostgreSQL.
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

// Create persiste un nuevo departamento.
func (r *DepartmentRepo) Create(ctx context.Context, d *entity.Department) error {
	query := `
		INSERT INTO departments (id, company_id, name, description, is_predefined, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.Name, d.Description, d.IsPredefined, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID obtiene un departamento por ID.
func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	query := `
		SELECT id, company_id, name, description, is_predefined, created_at, updated_at
		FROM departments WHERE id = $1`
	var d entity.Department
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.IsPredefined, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

// Update actualiza nombre y descripción.
func (r *DepartmentRepo) Update(ctx context.Context, d *entity.Department) error {
	_, err := r.q.Exec(ctx,
		`UPDATE departments SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		d.ID, d.Name, d.Description, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// Delete elimina un departamento.
func (r *DepartmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}

// ListByCompany lista los departamentos de una empresa.
func (r *DepartmentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Department, error) {
	query := `
		SELECT id, company_id, name, description, is_predefined, created_at, updated_at
		FROM departments WHERE company_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.IsPredefined, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
