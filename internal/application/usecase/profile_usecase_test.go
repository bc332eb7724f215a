package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/usecase"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
)

const (
	ownerA = "aaaaaaaa-2222-0000-0000-000000000002"
	staffA = "aaaaaaaa-2222-0000-0000-000000000003"
	deptA  = "aaaaaaaa-3333-0000-0000-000000000001"
	deptB  = "bbbbbbbb-3333-0000-0000-000000000001"
)

type fakeProfiles struct {
	byID map[string]*entity.Profile
}

func (f *fakeProfiles) Create(_ context.Context, p *entity.Profile) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	dup := *p
	return &dup, nil
}

func (f *fakeProfiles) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
	for _, p := range f.byID {
		if p.Email == email {
			dup := *p
			return &dup, nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) Update(_ context.Context, p *entity.Profile) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProfiles) SetActive(_ context.Context, id string, active bool) error {
	if p, ok := f.byID[id]; ok {
		p.IsActive = active
	}
	return nil
}

func (f *fakeProfiles) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Profile, error) {
	var out []*entity.Profile
	for _, p := range f.byID {
		if p.CompanyID != nil && *p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) CountByCompany(_ context.Context, companyID string) (int, error) {
	list, _ := f.ListByCompany(context.Background(), companyID, 0, 0)
	return len(list), nil
}

type fakeDepartments struct {
	byID map[string]*entity.Department
}

func (f *fakeDepartments) Create(_ context.Context, d *entity.Department) error { return nil }
func (f *fakeDepartments) GetByID(_ context.Context, id string) (*entity.Department, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	dup := *d
	return &dup, nil
}
func (f *fakeDepartments) Update(_ context.Context, _ *entity.Department) error { return nil }
func (f *fakeDepartments) Delete(_ context.Context, _ string) error             { return nil }
func (f *fakeDepartments) ListByCompany(_ context.Context, _ string) ([]*entity.Department, error) {
	return nil, nil
}

func newProfileHarness() (*usecase.ProfileUseCase, *fakeProfiles) {
	cidA := companyA
	profiles := &fakeProfiles{byID: map[string]*entity.Profile{
		ownerA: {ID: ownerA, Email: "owner@acme.test", FullName: "Dueña", Role: "company_owner", CompanyID: &cidA, IsActive: true},
		staffA: {ID: staffA, Email: "staff@acme.test", FullName: "Operaria", Role: "staff", CompanyID: &cidA, IsActive: true},
	}}
	departments := &fakeDepartments{byID: map[string]*entity.Department{
		deptA: {ID: deptA, CompanyID: companyA, Name: "Bodega"},
		deptB: {ID: deptB, CompanyID: companyB, Name: "Compras"},
	}}
	return usecase.NewProfileUseCase(profiles, departments), profiles
}

func ownerPrincipal() policy.Principal {
	return policy.Principal{UserID: ownerA, Role: policy.RoleCompanyOwner, CompanyID: companyA}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// ──────────────────────────────────────────────────────────────────────────────
// Update — reglas de cambio de rol y departamento
// ──────────────────────────────────────────────────────────────────────────────

func TestProfileUpdate_CambioDeRolPermitido(t *testing.T) {
	uc, profiles := newProfileHarness()

	out, err := uc.Update(context.Background(), ownerPrincipal(), staffA, dto.UpdateProfileRequest{
		Role: strPtr("department_manager"),
	})
	require.NoError(t, err)
	assert.Equal(t, "department_manager", out.Role)
	assert.Equal(t, "department_manager", profiles.byID[staffA].Role)
}

func TestProfileUpdate_NadieCambiaSuPropioRol(t *testing.T) {
	uc, _ := newProfileHarness()

	_, err := uc.Update(context.Background(), ownerPrincipal(), ownerA, dto.UpdateProfileRequest{
		Role: strPtr("super_admin"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProfileUpdate_OwnerNoAsignaSuperAdmin(t *testing.T) {
	uc, _ := newProfileHarness()

	_, err := uc.Update(context.Background(), ownerPrincipal(), staffA, dto.UpdateProfileRequest{
		Role: strPtr("super_admin"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProfileUpdate_DepartamentoDeOtraEmpresaRechazado(t *testing.T) {
	uc, _ := newProfileHarness()

	_, err := uc.Update(context.Background(), ownerPrincipal(), staffA, dto.UpdateProfileRequest{
		DepartmentID: strPtr(deptB),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProfileUpdate_DepartamentoPropioAsignado(t *testing.T) {
	uc, profiles := newProfileHarness()

	out, err := uc.Update(context.Background(), ownerPrincipal(), staffA, dto.UpdateProfileRequest{
		DepartmentID: strPtr(deptA),
	})
	require.NoError(t, err)
	require.NotNil(t, out.DepartmentID)
	assert.Equal(t, deptA, *profiles.byID[staffA].DepartmentID)
}

func TestProfileUpdate_AutoDesactivacionProhibida(t *testing.T) {
	uc, profiles := newProfileHarness()

	_, err := uc.Update(context.Background(), ownerPrincipal(), ownerA, dto.UpdateProfileRequest{
		IsActive: boolPtr(false),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.True(t, profiles.byID[ownerA].IsActive)
}

func TestProfileUpdate_DesactivarAOtro(t *testing.T) {
	uc, profiles := newProfileHarness()

	_, err := uc.Update(context.Background(), ownerPrincipal(), staffA, dto.UpdateProfileRequest{
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, profiles.byID[staffA].IsActive)
}

func TestProfileUpdate_CrossTenantDenegado(t *testing.T) {
	uc, _ := newProfileHarness()
	intruso := policy.Principal{UserID: "x", Role: policy.RoleCompanyOwner, CompanyID: companyB}

	_, err := uc.Update(context.Background(), intruso, staffA, dto.UpdateProfileRequest{
		FullName: strPtr("Cambiada"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListByCompany
// ──────────────────────────────────────────────────────────────────────────────

func TestProfileList_AcotadoConTotal(t *testing.T) {
	uc, _ := newProfileHarness()

	out, err := uc.ListByCompany(context.Background(), ownerPrincipal(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 2, out.Page.Total)
}
