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

var _ repository.InviteRepository = (*InviteRepo)(nil)

// InviteRepo implementación del puerto InviteRepository sobre PostgreSQL.
type InviteRepo struct {
	q Querier
}

// NewInviteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInviteRepository(q Querier) *InviteRepo {
	return &InviteRepo{q: q}
}

const inviteColumns = `id, email, role, company_id, department_id, token, status, invited_by, expires_at, created_at, updated_at`

// Create persiste una invitación.
func (r *InviteRepo) Create(ctx context.Context, i *entity.Invite) error {
	query := `
		INSERT INTO invites (` + inviteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.Email, i.Role, i.CompanyID, i.DepartmentID, i.Token, i.Status,
		i.InvitedBy, i.ExpiresAt, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invite: %w", err)
	}
	return nil
}

// GetByToken obtiene una invitación por su token opaco.
func (r *InviteRepo) GetByToken(ctx context.Context, token string) (*entity.Invite, error) {
	var i entity.Invite
	err := r.q.QueryRow(ctx, `SELECT `+inviteColumns+` FROM invites WHERE token = $1`, token).Scan(
		&i.ID, &i.Email, &i.Role, &i.CompanyID, &i.DepartmentID, &i.Token, &i.Status,
		&i.InvitedBy, &i.ExpiresAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return &i, nil
}

// Accept marca la invitación como aceptada solo si sigue pending.
// El UPDATE condicional garantiza exactly-once aunque dos aceptaciones
// lleguen en paralelo: exactamente una ve RowsAffected() == 1.
func (r *InviteRepo) Accept(ctx context.Context, token string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE invites SET status = 'accepted', updated_at = now()
		WHERE token = $1 AND status = 'pending'`, token)
	if err != nil {
		return false, fmt.Errorf("accept invite: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByCompany lista las invitaciones de una empresa.
func (r *InviteRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invite, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invite
	for rows.Next() {
		var i entity.Invite
		if err := rows.Scan(&i.ID, &i.Email, &i.Role, &i.CompanyID, &i.DepartmentID, &i.Token,
			&i.Status, &i.InvitedBy, &i.ExpiresAt, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
