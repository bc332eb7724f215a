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

// CompanyUseCase casos de uso para empresas. El alta y la desactivación son
// exclusivas de super_admin; company_owner solo edita la propia.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create crea una empresa. Solo super_admin (ref sin empresa: cualquier otro
// rol falla sameCompany).
func (uc *CompanyUseCase) Create(ctx context.Context, p policy.Principal, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := authorize(p, policy.ActionCreate, policy.EntityCompany, ""); err != nil {
		return nil, err
	}
	plan := in.SubscriptionPlan
	if plan == "" {
		plan = entity.PlanFree
	}
	maxUsers := in.MaxUsers
	if maxUsers <= 0 {
		maxUsers = 5
	}
	now := time.Now()
	company := &entity.Company{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Industry:         in.Industry,
		Address:          in.Address,
		Phone:            in.Phone,
		Email:            in.Email,
		Website:          in.Website,
		SubscriptionPlan: plan,
		MaxUsers:         maxUsers,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetByID obtiene una empresa dentro del alcance del principal.
func (uc *CompanyUseCase) GetByID(ctx context.Context, p policy.Principal, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionRead, policy.EntityCompany, company.ID); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Update edición parcial de empresa.
func (uc *CompanyUseCase) Update(ctx context.Context, p policy.Principal, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionUpdate, policy.EntityCompany, company.ID); err != nil {
		return nil, err
	}
	// Plan y cupo solo los cambia super_admin.
	if (in.SubscriptionPlan != nil || in.MaxUsers != nil) && p.Role != policy.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		company.Name = *in.Name
	}
	if in.Industry != nil {
		company.Industry = *in.Industry
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = *in.Email
	}
	if in.Website != nil {
		company.Website = *in.Website
	}
	if in.SubscriptionPlan != nil {
		company.SubscriptionPlan = *in.SubscriptionPlan
	}
	if in.MaxUsers != nil {
		company.MaxUsers = *in.MaxUsers
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// SetActive activa o desactiva una empresa (solo super_admin; la ref vacía
// deniega a cualquier otro rol).
func (uc *CompanyUseCase) SetActive(ctx context.Context, p policy.Principal, id string, active bool) error {
	if err := authorize(p, policy.ActionDelete, policy.EntityCompany, ""); err != nil {
		return err
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SetActive(ctx, id, active)
}

// List lista empresas. super_admin ve todas; cualquier otro rol solo la suya.
func (uc *CompanyUseCase) List(ctx context.Context, p policy.Principal, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	scope := policy.Scope(p)
	if !scope.All {
		one, err := uc.GetByID(ctx, p, scope.CompanyID)
		if err != nil {
			return nil, err
		}
		return &dto.CompanyListResponse{
			Items: []dto.CompanyResponse{*one},
			Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: 1},
		}, nil
	}
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:               c.ID,
		Name:             c.Name,
		Industry:         c.Industry,
		Address:          c.Address,
		Phone:            c.Phone,
		Email:            c.Email,
		Website:          c.Website,
		SubscriptionPlan: c.SubscriptionPlan,
		MaxUsers:         c.MaxUsers,
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
