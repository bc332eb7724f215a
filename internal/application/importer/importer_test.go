package importer_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocklane-api/internal/application/importer"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
	"github.com/jhoicas/stocklane-api/pkg/logger"
)

const companyA = "aaaaaaaa-0000-0000-0000-000000000001"

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeProducts struct {
	created []*entity.Product
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.created = append(f.created, p)
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, _ string) (*entity.Product, error) {
	return nil, nil
}

func (f *fakeProducts) GetForUpdate(_ context.Context, _ string) (*entity.Product, error) {
	return nil, nil
}

func (f *fakeProducts) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range f.created {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) Update(_ context.Context, _ *entity.Product) error          { return nil }
func (f *fakeProducts) AdjustStock(_ context.Context, _ string, _ int64) error     { return nil }
func (f *fakeProducts) SetStock(_ context.Context, _ string, _ int64) error        { return nil }
func (f *fakeProducts) Count(_ context.Context, _ repository.ProductFilter) (int, error) {
	return len(f.created), nil
}
func (f *fakeProducts) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeProducts) List(_ context.Context, filter repository.ProductFilter, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.created {
		if filter.CompanyID != "" && p.CompanyID != filter.CompanyID {
			continue
		}
		if filter.LowStock && p.CurrentStock > p.ReorderLevel {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeSuppliers struct {
	created []*entity.Supplier
}

func (f *fakeSuppliers) Create(_ context.Context, s *entity.Supplier) error {
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSuppliers) GetByID(_ context.Context, _ string) (*entity.Supplier, error) {
	return nil, nil
}
func (f *fakeSuppliers) Update(_ context.Context, _ *entity.Supplier) error { return nil }
func (f *fakeSuppliers) Delete(_ context.Context, _ string) error           { return nil }
func (f *fakeSuppliers) ListByCompany(_ context.Context, _ string, _, _ int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (f *fakeSuppliers) CountByCompany(_ context.Context, _ string) (int, error) {
	return len(f.created), nil
}

func newUseCase() (*importer.UseCase, *fakeProducts, *fakeSuppliers) {
	products := &fakeProducts{}
	suppliers := &fakeSuppliers{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return importer.NewUseCase(products, suppliers, log), products, suppliers
}

func manager() policy.Principal {
	return policy.Principal{
		UserID:    "aaaaaaaa-2222-0000-0000-000000000001",
		Role:      policy.RoleDepartmentManager,
		CompanyID: companyA,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ImportProducts
// ──────────────────────────────────────────────────────────────────────────────

func TestImportProducts_FilasValidas(t *testing.T) {
	uc, products, _ := newUseCase()
	csvData := strings.Join([]string{
		"name,sku,category,reorder_level,unit_price",
		"Tornillos,SKU-001,ferretería,10,2.50",
		"Tuercas,SKU-002,ferretería,5,1.25",
	}, "\n")

	out, err := uc.ImportProducts(context.Background(), manager(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, out.Imported)
	assert.Zero(t, out.Failed)
	assert.False(t, out.Aborted)
	require.Len(t, products.created, 2)
	assert.Equal(t, companyA, products.created[0].CompanyID)
	assert.Equal(t, "SKU-001", products.created[0].SKU)
	assert.Equal(t, int64(0), products.created[0].CurrentStock, "los productos importados nacen con stock 0")
	assert.Equal(t, "2.5", products.created[0].UnitPrice.String())
}

func TestImportProducts_FilaInvalidaNoAbortaElResto(t *testing.T) {
	uc, products, _ := newUseCase()
	csvData := strings.Join([]string{
		"name,sku,category,reorder_level,unit_price",
		"Tornillos,SKU-001,ferretería,10,2.50",
		",SKU-002,ferretería,5,1.25",            // sin nombre
		"Arandelas,SKU-003,ferretería,abc,1.00", // reorder_level no numérico
		"Clavos,SKU-004,ferretería,3,0.80",
	}, "\n")

	out, err := uc.ImportProducts(context.Background(), manager(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, out.Imported)
	assert.Equal(t, 2, out.Failed)
	require.Len(t, out.Errors, 2)
	assert.Equal(t, 3, out.Errors[0].Line)
	assert.Equal(t, 4, out.Errors[1].Line)
	assert.Len(t, products.created, 2)
}

func TestImportProducts_SKUDuplicadoFallaLaFila(t *testing.T) {
	uc, _, _ := newUseCase()
	csvData := strings.Join([]string{
		"name,sku,category,reorder_level,unit_price",
		"Tornillos,SKU-001,ferretería,10,2.50",
		"Tornillos bis,SKU-001,ferretería,10,2.50",
	}, "\n")

	out, err := uc.ImportProducts(context.Background(), manager(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Imported)
	assert.Equal(t, 1, out.Failed)
	assert.Contains(t, out.Errors[0].Message, "SKU-001")
}

func TestImportProducts_CabeceraIncorrecta(t *testing.T) {
	uc, _, _ := newUseCase()
	_, err := uc.ImportProducts(context.Background(), manager(),
		strings.NewReader("sku,name\nSKU-001,Tornillos"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportProducts_StaffDenegado(t *testing.T) {
	uc, _, _ := newUseCase()
	staff := policy.Principal{UserID: "u", Role: policy.RoleStaff, CompanyID: companyA}
	_, err := uc.ImportProducts(context.Background(), staff,
		strings.NewReader("name,sku,category,reorder_level,unit_price\n"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestImportProducts_CancelacionEntreFilas(t *testing.T) {
	uc, products, _ := newUseCase()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := uc.ImportProducts(ctx, manager(), strings.NewReader(strings.Join([]string{
		"name,sku,category,reorder_level,unit_price",
		"Tornillos,SKU-001,ferretería,10,2.50",
	}, "\n")))
	require.NoError(t, err)

	// Con el contexto ya cancelado no se procesa ninguna fila, pero lo
	// importado hasta ese punto (nada aquí) queda y se reporta Aborted.
	assert.True(t, out.Aborted)
	assert.Zero(t, out.Imported)
	assert.Empty(t, products.created)
}

// ──────────────────────────────────────────────────────────────────────────────
// ImportSuppliers
// ──────────────────────────────────────────────────────────────────────────────

func TestImportSuppliers_TiposDeProductoYRating(t *testing.T) {
	uc, _, suppliers := newUseCase()
	csvData := strings.Join([]string{
		"name,email,phone,address,product_types,rating",
		"Ferretera Norte,ventas@norte.test,555-0101,Calle 1,ferretería;eléctricos,4",
		"Sin Rating,contacto@sr.test,555-0102,Calle 2,,",
	}, "\n")

	out, err := uc.ImportSuppliers(context.Background(), manager(), strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, out.Imported)
	require.Len(t, suppliers.created, 2)
	assert.Equal(t, []string{"ferretería", "eléctricos"}, suppliers.created[0].ProductTypes)
	require.NotNil(t, suppliers.created[0].Rating)
	assert.Equal(t, 4, *suppliers.created[0].Rating)
	assert.Nil(t, suppliers.created[1].Rating)
}

func TestImportSuppliers_RatingFueraDeRango(t *testing.T) {
	uc, _, _ := newUseCase()
	csvData := strings.Join([]string{
		"name,email,phone,address,product_types,rating",
		"Malo,a@b.test,1,calle,x,9",
	}, "\n")

	out, err := uc.ImportSuppliers(context.Background(), manager(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Failed)
	assert.Zero(t, out.Imported)
}

// ──────────────────────────────────────────────────────────────────────────────
// Export
// ──────────────────────────────────────────────────────────────────────────────

func seedProducts(t *testing.T, uc *importer.UseCase) {
	t.Helper()
	csvData := strings.Join([]string{
		"name,sku,category,reorder_level,unit_price",
		"Tornillos,SKU-001,ferretería,10,2.50",
		"Tuercas,SKU-002,ferretería,0,1.25",
	}, "\n")
	_, err := uc.ImportProducts(context.Background(), manager(), strings.NewReader(csvData))
	require.NoError(t, err)
}

func TestExportInventoryCSV_CabeceraYFilas(t *testing.T) {
	uc, _, _ := newUseCase()
	seedProducts(t, uc)

	data, err := uc.ExportInventoryCSV(context.Background(), manager(), false)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"sku", "name", "category", "current_stock", "reorder_level", "unit_price", "low_stock"}, records[0])
	// Stock 0 <= reorder 10: la fila va marcada como low_stock.
	assert.Equal(t, "SKU-001", records[1][0])
	assert.Equal(t, "true", records[1][6])
	// Stock 0 <= reorder 0 también es low_stock (frontera inclusiva).
	assert.Equal(t, "true", records[2][6])
}

func TestExportInventoryCSV_SoloLowStock(t *testing.T) {
	uc, products, _ := newUseCase()
	seedProducts(t, uc)
	products.created[1].CurrentStock = 99 // por encima del reorden

	data, err := uc.ExportInventoryCSV(context.Background(), manager(), true)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "solo la fila en reorden más la cabecera")
	assert.Equal(t, "SKU-001", records[1][0])
}

func TestExportInventoryXLSX_GeneraLibroNoVacio(t *testing.T) {
	uc, _, _ := newUseCase()
	seedProducts(t, uc)

	data, err := uc.ExportInventoryXLSX(context.Background(), manager(), false)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// Un XLSX es un ZIP: firma PK\x03\x04.
	assert.Equal(t, []byte{'P', 'K', 0x03, 0x04}, data[:4])
}

func TestExport_SuperAdminSinEmpresaExigeFiltro(t *testing.T) {
	uc, _, _ := newUseCase()
	admin := policy.Principal{UserID: "u", Role: policy.RoleSuperAdmin}
	_, err := uc.ExportInventoryCSV(context.Background(), admin, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
