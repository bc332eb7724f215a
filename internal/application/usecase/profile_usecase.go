package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
)

// ProfileUseCase casos de uso para perfiles de usuario. El alta de perfiles
// ocurre solo por registro o invitación; aquí solo lectura y edición.
type ProfileUseCase struct {
	profiles    repository.ProfileRepository
	departments repository.DepartmentRepository
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(profiles repository.ProfileRepository, departments repository.DepartmentRepository) *ProfileUseCase {
	return &ProfileUseCase{profiles: profiles, departments: departments}
}

// GetByID obtiene un perfil dentro del alcance del principal.
func (uc *ProfileUseCase) GetByID(ctx context.Context, p policy.Principal, id string) (*dto.ProfileResponse, error) {
	profile, err := uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionRead, policy.EntityProfile, companyOf(profile)); err != nil {
		return nil, err
	}
	resp := toProfileResponse(profile)
	return &resp, nil
}

// Update edita un perfil. El cambio de rol pasa por CanChangeRole: nadie
// cambia el rol de su propia fila y el resultado del cambio sobre otras
// sesiones es efectivo en su próximo token, nunca en la del actor.
func (uc *ProfileUseCase) Update(ctx context.Context, p policy.Principal, id string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := uc.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionUpdate, policy.EntityProfile, companyOf(profile)); err != nil {
		return nil, err
	}

	if in.Role != nil {
		from, err := policy.ParseRole(profile.Role)
		if err != nil {
			return nil, err
		}
		to, err := policy.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		if err := policy.CanChangeRole(p, profile.ID, from, to); err != nil {
			return nil, err
		}
		profile.Role = string(to)
	}
	if in.DepartmentID != nil {
		// Un departamento de otra empresa se rechaza en la escritura.
		dept, err := uc.departments.GetByID(ctx, *in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if dept == nil || dept.CompanyID != companyOf(profile) {
			return nil, domain.ErrInvalidInput
		}
		profile.DepartmentID = in.DepartmentID
	}
	if in.FullName != nil {
		profile.FullName = *in.FullName
	}
	if in.IsActive != nil {
		// Nadie se desactiva a sí mismo.
		if profile.ID == p.UserID {
			return nil, domain.ErrForbidden
		}
		profile.IsActive = *in.IsActive
	}
	profile.UpdatedAt = time.Now()
	if err := uc.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	resp := toProfileResponse(profile)
	return &resp, nil
}

// ListByCompany lista los perfiles de la empresa del principal.
func (uc *ProfileUseCase) ListByCompany(ctx context.Context, p policy.Principal, page dto.PageRequest) (*dto.ProfileListResponse, error) {
	page.DefaultPage()
	scope := policy.Scope(p)
	if scope.All {
		return nil, domain.ErrInvalidInput
	}
	if err := authorize(p, policy.ActionRead, policy.EntityProfile, scope.CompanyID); err != nil {
		return nil, err
	}
	list, err := uc.profiles.ListByCompany(ctx, scope.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.profiles.CountByCompany(ctx, scope.CompanyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProfileResponse, 0, len(list))
	for _, profile := range list {
		items = append(items, toProfileResponse(profile))
	}
	return &dto.ProfileListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func companyOf(p *entity.Profile) string {
	if p.CompanyID == nil {
		return ""
	}
	return *p.CompanyID
}

func toProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:           p.ID,
		Email:        p.Email,
		FullName:     p.FullName,
		Role:         p.Role,
		CompanyID:    p.CompanyID,
		DepartmentID: p.DepartmentID,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
