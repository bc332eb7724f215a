package repository

import (
	"context"

	"github.com/jhoicas/stocklane-api/internal/domain/entity"
)

// InviteRepository define el puerto de persistencia para invitaciones (DIP).
// Accept debe ser condicional: marca accepted solo si la fila sigue pending
// (UPDATE ... WHERE status = 'pending'), devolviendo si hubo transición.
// Esto garantiza exactly-once incluso bajo aceptaciones concurrentes.
type InviteRepository interface {
	Create(ctx context.Context, invite *entity.Invite) error
	GetByToken(ctx context.Context, token string) (*entity.Invite, error)
	Accept(ctx context.Context, token string) (bool, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invite, error)
}
