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

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor en la empresa del principal.
func (uc *SupplierUseCase) Create(ctx context.Context, p policy.Principal, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := authorize(p, policy.ActionCreate, policy.EntitySupplier, p.CompanyID); err != nil {
		return nil, err
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: p.CompanyID,
		Name:      in.Name,
		ContactInfo: entity.ContactInfo{
			Email:   in.ContactInfo.Email,
			Phone:   in.ContactInfo.Phone,
			Address: in.ContactInfo.Address,
		},
		ProductTypes: in.ProductTypes,
		Rating:       in.Rating,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor dentro del alcance del principal.
func (uc *SupplierUseCase) GetByID(ctx context.Context, p policy.Principal, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionRead, policy.EntitySupplier, supplier.CompanyID); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Update edición parcial de proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, p policy.Principal, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionUpdate, policy.EntitySupplier, supplier.CompanyID); err != nil {
		return nil, err
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != nil {
		supplier.Name = *in.Name
	}
	if in.ContactInfo != nil {
		supplier.ContactInfo = entity.ContactInfo{
			Email:   in.ContactInfo.Email,
			Phone:   in.ContactInfo.Phone,
			Address: in.ContactInfo.Address,
		}
	}
	if in.ProductTypes != nil {
		supplier.ProductTypes = in.ProductTypes
	}
	if in.Rating != nil {
		supplier.Rating = in.Rating
	}
	supplier.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Delete elimina un proveedor (solo company_owner y super_admin por política).
func (uc *SupplierUseCase) Delete(ctx context.Context, p policy.Principal, id string) error {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionDelete, policy.EntitySupplier, supplier.CompanyID); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// ListByCompany lista los proveedores de la empresa del principal.
func (uc *SupplierUseCase) ListByCompany(ctx context.Context, p policy.Principal, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.DefaultPage()
	scope := policy.Scope(p)
	if scope.All {
		return nil, domain.ErrInvalidInput
	}
	if err := authorize(p, policy.ActionRead, policy.EntitySupplier, scope.CompanyID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByCompany(ctx, scope.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByCompany(ctx, scope.CompanyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Name:      s.Name,
		ContactInfo: dto.ContactInfoDTO{
			Email:   s.ContactInfo.Email,
			Phone:   s.ContactInfo.Phone,
			Address: s.ContactInfo.Address,
		},
		ProductTypes: s.ProductTypes,
		Rating:       s.Rating,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
