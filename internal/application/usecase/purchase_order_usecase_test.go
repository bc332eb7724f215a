package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/events"
	"github.com/jhoicas/stocklane-api/internal/application/usecase"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
)

const (
	companyA  = "aaaaaaaa-0000-0000-0000-000000000001"
	companyB  = "bbbbbbbb-0000-0000-0000-000000000001"
	supplierA = "aaaaaaaa-4444-0000-0000-000000000001"
	productA  = "aaaaaaaa-1111-0000-0000-000000000001"
	productA2 = "aaaaaaaa-1111-0000-0000-000000000002"
	managerA  = "aaaaaaaa-2222-0000-0000-000000000001"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrders struct {
	seq        int
	byID       map[string]*entity.PurchaseOrder
	items      map[string][]*entity.PurchaseOrderItem
	updates    []string // "id:status", en orden
	failCreate bool     // simula un insert de líneas fallido tras la cabecera
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[string]*entity.PurchaseOrder{}, items: map[string][]*entity.PurchaseOrderItem{}}
}

func (f *fakeOrders) NextPONumber(_ context.Context) (string, error) {
	f.seq++
	return fmt.Sprintf("PO-%06d", f.seq), nil
}

func (f *fakeOrders) Create(_ context.Context, po *entity.PurchaseOrder, items []*entity.PurchaseOrderItem) error {
	f.byID[po.ID] = po
	if f.failCreate {
		return assert.AnError
	}
	f.items[po.ID] = items
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	dup := *po
	return &dup, nil
}

func (f *fakeOrders) GetItems(_ context.Context, poID string) ([]*entity.PurchaseOrderItem, error) {
	return f.items[poID], nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id, status string) error {
	po, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status = status
	po.UpdatedAt = time.Now()
	f.updates = append(f.updates, id+":"+status)
	return nil
}

func (f *fakeOrders) ListByCompany(_ context.Context, companyID, status string, _, _ int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, po := range f.byID {
		if po.CompanyID != companyID {
			continue
		}
		if status != "" && po.Status != status {
			continue
		}
		out = append(out, po)
	}
	return out, nil
}

func (f *fakeOrders) SumTotalByCompany(_ context.Context, companyID string) (string, error) {
	total := decimal.Zero
	for _, po := range f.byID {
		if po.CompanyID == companyID {
			total = total.Add(po.TotalAmount)
		}
	}
	return total.String(), nil
}

type fakeProducts struct {
	byID map[string]*entity.Product
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	dup := *p
	return &dup, nil
}

func (f *fakeProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProducts) GetByCompanyAndSKU(_ context.Context, _, _ string) (*entity.Product, error) {
	return nil, nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error { return nil }

func (f *fakeProducts) AdjustStock(_ context.Context, id string, delta int64) error {
	p, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock += delta
	return nil
}

func (f *fakeProducts) SetStock(_ context.Context, id string, stock int64) error {
	if p, ok := f.byID[id]; ok {
		p.CurrentStock = stock
	}
	return nil
}

func (f *fakeProducts) List(_ context.Context, _ repository.ProductFilter, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) Count(_ context.Context, _ repository.ProductFilter) (int, error) {
	return 0, nil
}
func (f *fakeProducts) Delete(_ context.Context, _ string) error { return nil }

type fakeSuppliers struct {
	byID map[string]*entity.Supplier
}

func (f *fakeSuppliers) Create(_ context.Context, s *entity.Supplier) error { return nil }
func (f *fakeSuppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	dup := *s
	return &dup, nil
}
func (f *fakeSuppliers) Update(_ context.Context, _ *entity.Supplier) error { return nil }
func (f *fakeSuppliers) Delete(_ context.Context, _ string) error           { return nil }
func (f *fakeSuppliers) ListByCompany(_ context.Context, _ string, _, _ int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (f *fakeSuppliers) CountByCompany(_ context.Context, _ string) (int, error) { return 0, nil }

type fakeCompanies struct {
	byID map[string]*entity.Company
}

func (f *fakeCompanies) Create(_ context.Context, _ *entity.Company) error { return nil }
func (f *fakeCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	dup := *c
	return &dup, nil
}
func (f *fakeCompanies) Update(_ context.Context, _ *entity.Company) error       { return nil }
func (f *fakeCompanies) SetActive(_ context.Context, _ string, _ bool) error     { return nil }
func (f *fakeCompanies) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	return nil, nil
}

type fakeMoves struct {
	created []*entity.StockMovement
}

func (f *fakeMoves) Create(_ context.Context, m *entity.StockMovement) error {
	f.created = append(f.created, m)
	return nil
}
func (f *fakeMoves) GetByIdempotencyKey(_ context.Context, _, _ string) (*entity.StockMovement, error) {
	return nil, nil
}
func (f *fakeMoves) ListByProduct(_ context.Context, _ string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (f *fakeMoves) ListByCompany(_ context.Context, _ string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (f *fakeMoves) SumByProduct(_ context.Context, _ string) (int64, error) { return 0, nil }
func (f *fakeMoves) ListByBatch(_ context.Context, _ string) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (f *fakeMoves) DeleteBatch(_ context.Context, _ string) (int64, error) { return 0, nil }

// fakeOrdersTx simula la atomicidad: toma un snapshot de las órdenes y lo
// restaura si el callback devuelve error.
type fakeOrdersTx struct {
	orders   *fakeOrders
	moves    *fakeMoves
	products *fakeProducts
}

func (f *fakeOrdersTx) RunOrders(_ context.Context, fn func(
	repository.PurchaseOrderRepository,
	repository.StockMovementRepository,
	repository.ProductRepository,
) error) error {
	beforeOrders := make(map[string]*entity.PurchaseOrder, len(f.orders.byID))
	for id, po := range f.orders.byID {
		dup := *po
		beforeOrders[id] = &dup
	}
	beforeItems := make(map[string][]*entity.PurchaseOrderItem, len(f.orders.items))
	for id, items := range f.orders.items {
		beforeItems[id] = append([]*entity.PurchaseOrderItem(nil), items...)
	}
	if err := fn(f.orders, f.moves, f.products); err != nil {
		f.orders.byID = beforeOrders
		f.orders.items = beforeItems
		return err
	}
	return nil
}

type fakePDF struct{ calls int }

func (f *fakePDF) GeneratePOPDF(_ context.Context, _ *entity.PurchaseOrder, _ *entity.Company, _ *entity.Supplier, lines []usecase.POItemForPDF) ([]byte, error) {
	f.calls++
	return []byte(fmt.Sprintf("pdf:%d lineas", len(lines))), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Arnés
// ──────────────────────────────────────────────────────────────────────────────

type poHarness struct {
	orders   *fakeOrders
	products *fakeProducts
	moves    *fakeMoves
	pdf      *fakePDF
	uc       *usecase.PurchaseOrderUseCase
}

func newPOHarness() *poHarness {
	orders := newFakeOrders()
	products := &fakeProducts{byID: map[string]*entity.Product{
		productA: {ID: productA, CompanyID: companyA, SKU: "SKU-001", Name: "Tornillos",
			UnitPrice: decimal.NewFromInt(2), CurrentStock: 10, ReorderLevel: 5},
		productA2: {ID: productA2, CompanyID: companyA, SKU: "SKU-002", Name: "Tuercas",
			UnitPrice: decimal.NewFromInt(1), CurrentStock: 0, ReorderLevel: 20},
	}}
	suppliers := &fakeSuppliers{byID: map[string]*entity.Supplier{
		supplierA: {ID: supplierA, CompanyID: companyA, Name: "Ferretera Norte"},
	}}
	companies := &fakeCompanies{byID: map[string]*entity.Company{
		companyA: {ID: companyA, Name: "Acme", MaxUsers: 10, IsActive: true},
	}}
	moves := &fakeMoves{}
	pdfGen := &fakePDF{}
	return &poHarness{
		orders:   orders,
		products: products,
		moves:    moves,
		pdf:      pdfGen,
		uc: usecase.NewPurchaseOrderUseCase(
			&fakeOrdersTx{orders: orders, moves: moves, products: products},
			orders, suppliers, products, companies, pdfGen, events.NopBus{},
		),
	}
}

func manager() policy.Principal {
	return policy.Principal{UserID: managerA, Role: policy.RoleDepartmentManager, CompanyID: companyA}
}

func createOrder(t *testing.T, h *poHarness) *dto.POResponse {
	t.Helper()
	out, err := h.uc.Create(context.Background(), manager(), dto.CreatePORequest{
		SupplierID: supplierA,
		Items: []dto.POItemRequest{
			{ProductID: productA, Quantity: 100, UnitPrice: decimal.NewFromFloat(2.5)},
			{ProductID: productA2, Quantity: 40, UnitPrice: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestPOCreate_TotalCongeladoYNumeroDeSecuencia(t *testing.T) {
	h := newPOHarness()
	out := createOrder(t, h)

	assert.Equal(t, entity.POStatusPending, out.Status)
	assert.Equal(t, "PO-000001", out.PONumber)
	// 100×2.5 + 40×1 = 290
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(290)), "total %s", out.TotalAmount)
	require.Len(t, out.Items, 2)
	assert.True(t, out.Items[0].TotalPrice.Equal(decimal.NewFromInt(250)))

	segundo := createOrder(t, h)
	assert.Equal(t, "PO-000002", segundo.PONumber, "la secuencia nunca repite números")
}

func TestPOCreate_ProveedorInexistente(t *testing.T) {
	h := newPOHarness()
	_, err := h.uc.Create(context.Background(), manager(), dto.CreatePORequest{
		SupplierID: "deadbeef-0000-0000-0000-000000000000",
		Items:      []dto.POItemRequest{{ProductID: productA, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPOCreate_ProductoDeOtraEmpresaRechazado(t *testing.T) {
	h := newPOHarness()
	h.products.byID["otro"] = &entity.Product{ID: "otro", CompanyID: companyB, SKU: "X", Name: "Ajeno"}

	_, err := h.uc.Create(context.Background(), manager(), dto.CreatePORequest{
		SupplierID: supplierA,
		Items:      []dto.POItemRequest{{ProductID: "otro", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPOCreate_CantidadOPrecioInvalidos(t *testing.T) {
	h := newPOHarness()
	_, err := h.uc.Create(context.Background(), manager(), dto.CreatePORequest{
		SupplierID: supplierA,
		Items:      []dto.POItemRequest{{ProductID: productA, Quantity: 0, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.uc.Create(context.Background(), manager(), dto.CreatePORequest{
		SupplierID: supplierA,
		Items:      []dto.POItemRequest{{ProductID: productA, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPOCreate_StaffDenegado(t *testing.T) {
	h := newPOHarness()
	staff := policy.Principal{UserID: managerA, Role: policy.RoleStaff, CompanyID: companyA}
	_, err := h.uc.Create(context.Background(), staff, dto.CreatePORequest{
		SupplierID: supplierA,
		Items:      []dto.POItemRequest{{ProductID: productA, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPOCreate_CabeceraYLineasAtomicas(t *testing.T) {
	h := newPOHarness()
	h.orders.failCreate = true

	_, err := h.uc.Create(context.Background(), manager(), dto.CreatePORequest{
		SupplierID: supplierA,
		Items:      []dto.POItemRequest{{ProductID: productA, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.Error(t, err)

	// Un fallo al insertar las líneas revierte también la cabecera: nunca queda
	// una orden sin items (total_amount = Σ items.total_price).
	assert.Empty(t, h.orders.byID)
	assert.Empty(t, h.orders.items)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus — ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestPOUpdateStatus_CaminoFeliz(t *testing.T) {
	h := newPOHarness()
	po := createOrder(t, h)

	for _, status := range []string{entity.POStatusApproved, entity.POStatusSent} {
		out, err := h.uc.UpdateStatus(context.Background(), manager(), po.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, out.Status)
	}
}

func TestPOUpdateStatus_SaltarseUnPasoEsConflicto(t *testing.T) {
	h := newPOHarness()
	po := createOrder(t, h)

	// pending → sent y pending → received se saltan approved.
	_, err := h.uc.UpdateStatus(context.Background(), manager(), po.ID, entity.POStatusSent)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = h.uc.UpdateStatus(context.Background(), manager(), po.ID, entity.POStatusReceived)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPOUpdateStatus_EstadosTerminalesNoReviven(t *testing.T) {
	h := newPOHarness()
	po := createOrder(t, h)

	_, err := h.uc.UpdateStatus(context.Background(), manager(), po.ID, entity.POStatusCancelled)
	require.NoError(t, err)

	_, err = h.uc.UpdateStatus(context.Background(), manager(), po.ID, entity.POStatusApproved)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPOUpdateStatus_RecibirEmiteEntradasConLaOrdenComoLote(t *testing.T) {
	h := newPOHarness()
	po := createOrder(t, h)

	for _, status := range []string{entity.POStatusApproved, entity.POStatusSent} {
		_, err := h.uc.UpdateStatus(context.Background(), manager(), po.ID, status)
		require.NoError(t, err)
	}

	out, err := h.uc.UpdateStatus(context.Background(), manager(), po.ID, entity.POStatusReceived)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, out.Status)

	// Un movimiento in por línea, correlacionados por la orden.
	require.Len(t, h.moves.created, 2)
	for _, m := range h.moves.created {
		assert.Equal(t, entity.MovementTypeIn, m.Type)
		require.NotNil(t, m.BatchID)
		assert.Equal(t, po.ID, *m.BatchID)
		assert.Contains(t, m.Notes, po.PONumber)
	}
	assert.Equal(t, int64(110), h.products.byID[productA].CurrentStock)
	assert.Equal(t, int64(40), h.products.byID[productA2].CurrentStock)
}

func TestPOUpdateStatus_CrossTenantNoVeLaOrden(t *testing.T) {
	h := newPOHarness()
	po := createOrder(t, h)

	intruso := policy.Principal{UserID: managerA, Role: policy.RoleCompanyOwner, CompanyID: companyB}
	_, err := h.uc.UpdateStatus(context.Background(), intruso, po.ID, entity.POStatusApproved)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestPOList_FiltraPorEstado(t *testing.T) {
	h := newPOHarness()
	po := createOrder(t, h)
	createOrder(t, h)
	_, err := h.uc.UpdateStatus(context.Background(), manager(), po.ID, entity.POStatusApproved)
	require.NoError(t, err)

	out, err := h.uc.ListByCompany(context.Background(), manager(), dto.ListPORequest{Status: entity.POStatusApproved})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, po.ID, out.Items[0].ID)
}

func TestPOGeneratePDF_ComponeLasLineasConDatosDeProducto(t *testing.T) {
	h := newPOHarness()
	po := createOrder(t, h)

	data, err := h.uc.GeneratePDF(context.Background(), manager(), po.ID)
	require.NoError(t, err)
	assert.Equal(t, "pdf:2 lineas", string(data))
	assert.Equal(t, 1, h.pdf.calls)
}
