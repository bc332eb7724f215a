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

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `id, email, full_name, password_hash, role, company_id, department_id, is_active, created_at, updated_at`

// Create persiste un nuevo perfil.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Email, p.FullName, p.PasswordHash, p.Role, p.CompanyID, p.DepartmentID,
		p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID obtiene un perfil por ID.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	return r.get(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
}

// GetByEmail obtiene un perfil por email (único global).
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	return r.get(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)
}

func (r *ProfileRepo) get(ctx context.Context, query string, arg any) (*entity.Profile, error) {
	var p entity.Profile
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Email, &p.FullName, &p.PasswordHash, &p.Role, &p.CompanyID, &p.DepartmentID,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// Update actualiza un perfil (incluido rol y departamento; las reglas de quién
// puede cambiar qué viven en el motor de políticas, no aquí).
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $2, role = $3, company_id = $4, department_id = $5, is_active = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.FullName, p.Role, p.CompanyID, p.DepartmentID, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// SetActive activa/desactiva un perfil.
func (r *ProfileRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.q.Exec(ctx,
		`UPDATE profiles SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("set profile active: %w", err)
	}
	return nil
}

// ListByCompany lista perfiles de una empresa con paginación.
func (r *ProfileRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles WHERE company_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.PasswordHash, &p.Role, &p.CompanyID,
			&p.DepartmentID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CountByCompany cuenta los perfiles activos de una empresa (límite max_users).
func (r *ProfileRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM profiles WHERE company_id = $1 AND is_active`, companyID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}
