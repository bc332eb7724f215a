package repository

import (
	"context"

	"github.com/jhoicas/stocklane-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile (DIP).
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	SetActive(ctx context.Context, id string, active bool) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Profile, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
}
