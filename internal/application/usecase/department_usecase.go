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

// DepartmentUseCase casos de uso para departamentos.
type DepartmentUseCase struct {
	repo repository.DepartmentRepository
}

// NewDepartmentUseCase construye el caso de uso.
func NewDepartmentUseCase(repo repository.DepartmentRepository) *DepartmentUseCase {
	return &DepartmentUseCase{repo: repo}
}

// Create crea un departamento en la empresa del principal.
func (uc *DepartmentUseCase) Create(ctx context.Context, p policy.Principal, in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if err := authorize(p, policy.ActionCreate, policy.EntityDepartment, p.CompanyID); err != nil {
		return nil, err
	}
	now := time.Now()
	dept := &entity.Department{
		ID:          uuid.New().String(),
		CompanyID:   p.CompanyID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, dept); err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// GetByID obtiene un departamento dentro del alcance del principal.
func (uc *DepartmentUseCase) GetByID(ctx context.Context, p policy.Principal, id string) (*dto.DepartmentResponse, error) {
	dept, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionRead, policy.EntityDepartment, dept.CompanyID); err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// Update edición parcial. Los departamentos predefinidos no se renombran.
func (uc *DepartmentUseCase) Update(ctx context.Context, p policy.Principal, id string, in dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	dept, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionUpdate, policy.EntityDepartment, dept.CompanyID); err != nil {
		return nil, err
	}
	if dept.IsPredefined && in.Name != nil {
		return nil, domain.ErrConflict
	}
	if in.Name != nil {
		dept.Name = *in.Name
	}
	if in.Description != nil {
		dept.Description = *in.Description
	}
	dept.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, dept); err != nil {
		return nil, err
	}
	return toDepartmentResponse(dept), nil
}

// Delete elimina un departamento. department_manager no puede (política);
// los predefinidos tampoco se eliminan.
func (uc *DepartmentUseCase) Delete(ctx context.Context, p policy.Principal, id string) error {
	dept, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if dept == nil {
		return domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionDelete, policy.EntityDepartment, dept.CompanyID); err != nil {
		return err
	}
	if dept.IsPredefined {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

// ListByCompany lista los departamentos de la empresa del principal.
func (uc *DepartmentUseCase) ListByCompany(ctx context.Context, p policy.Principal) ([]dto.DepartmentResponse, error) {
	scope := policy.Scope(p)
	if scope.All {
		return nil, domain.ErrInvalidInput
	}
	if err := authorize(p, policy.ActionRead, policy.EntityDepartment, scope.CompanyID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByCompany(ctx, scope.CompanyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDepartmentResponse(d))
	}
	return items, nil
}

func toDepartmentResponse(d *entity.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:           d.ID,
		CompanyID:    d.CompanyID,
		Name:         d.Name,
		Description:  d.Description,
		IsPredefined: d.IsPredefined,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
