package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/events"
	"github.com/jhoicas/stocklane-api/internal/application/inventory"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
)

const (
	companyA  = "aaaaaaaa-0000-0000-0000-000000000001"
	companyB  = "bbbbbbbb-0000-0000-0000-000000000001"
	productA  = "aaaaaaaa-1111-0000-0000-000000000001"
	productA2 = "aaaaaaaa-1111-0000-0000-000000000002"
	staffA    = "aaaaaaaa-2222-0000-0000-000000000001"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory: almacén compartido + TxRunner con snapshot/rollback
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{products: map[string]*entity.Product{}}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for id, p := range s.products {
		dup := *p
		cp.products[id] = &dup
	}
	for _, m := range s.movements {
		dup := *m
		cp.movements = append(cp.movements, &dup)
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.movements = from.movements
}

type fakeProducts struct{ store *memStore }

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.store.products[p.ID] = p
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := f.store.products[id]
	if !ok {
		return nil, nil
	}
	dup := *p
	return &dup, nil
}

func (f *fakeProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProducts) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range f.store.products {
		if p.CompanyID == companyID && p.SKU == sku {
			dup := *p
			return &dup, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error {
	f.store.products[p.ID] = p
	return nil
}

func (f *fakeProducts) AdjustStock(_ context.Context, productID string, delta int64) error {
	p, ok := f.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock += delta
	return nil
}

func (f *fakeProducts) SetStock(_ context.Context, productID string, stock int64) error {
	p, ok := f.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = stock
	return nil
}

func (f *fakeProducts) List(_ context.Context, _ repository.ProductFilter, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

func (f *fakeProducts) Count(_ context.Context, _ repository.ProductFilter) (int, error) {
	return len(f.store.products), nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	delete(f.store.products, id)
	return nil
}

type fakeMoves struct{ store *memStore }

func (f *fakeMoves) Create(_ context.Context, m *entity.StockMovement) error {
	if m.IdempotencyKey != nil {
		for _, prev := range f.store.movements {
			if prev.CompanyID == m.CompanyID && prev.IdempotencyKey != nil && *prev.IdempotencyKey == *m.IdempotencyKey {
				return domain.ErrDuplicateMovement
			}
		}
	}
	f.store.movements = append(f.store.movements, m)
	return nil
}

func (f *fakeMoves) GetByIdempotencyKey(_ context.Context, companyID, key string) (*entity.StockMovement, error) {
	for _, m := range f.store.movements {
		if m.CompanyID == companyID && m.IdempotencyKey != nil && *m.IdempotencyKey == key {
			dup := *m
			return &dup, nil
		}
	}
	return nil, nil
}

func (f *fakeMoves) ListByProduct(_ context.Context, productID string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range f.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMoves) ListByCompany(_ context.Context, companyID string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range f.store.movements {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMoves) SumByProduct(_ context.Context, productID string) (int64, error) {
	var total int64
	for _, m := range f.store.movements {
		if m.ProductID != productID {
			continue
		}
		if m.Type == entity.MovementTypeOut {
			total -= m.Quantity
		} else {
			total += m.Quantity
		}
	}
	return total, nil
}

func (f *fakeMoves) ListByBatch(_ context.Context, batchID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range f.store.movements {
		if m.BatchID != nil && *m.BatchID == batchID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMoves) DeleteBatch(_ context.Context, batchID string) (int64, error) {
	var kept []*entity.StockMovement
	var deleted int64
	for _, m := range f.store.movements {
		if m.BatchID != nil && *m.BatchID == batchID {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.store.movements = kept
	return deleted, nil
}

// fakeTx simula la atomicidad todo-o-nada: toma un snapshot del almacén y lo
// restaura si el callback devuelve error.
type fakeTx struct{ store *memStore }

func (f *fakeTx) Run(_ context.Context, fn func(repository.StockMovementRepository, repository.ProductRepository) error) error {
	before := f.store.snapshot()
	if err := fn(&fakeMoves{store: f.store}, &fakeProducts{store: f.store}); err != nil {
		f.store.restore(before)
		return err
	}
	return nil
}

// captureSubscriber acumula los eventos publicados.
type captureSubscriber struct {
	stockChanged []events.StockChanged
	lowStock     []events.LowStock
}

func (c *captureSubscriber) OnStockChanged(e events.StockChanged) { c.stockChanged = append(c.stockChanged, e) }
func (c *captureSubscriber) OnLowStock(e events.LowStock)         { c.lowStock = append(c.lowStock, e) }

// ──────────────────────────────────────────────────────────────────────────────
// Arnés
// ──────────────────────────────────────────────────────────────────────────────

type harness struct {
	store *memStore
	uc    *inventory.UseCase
	subs  *captureSubscriber
}

func newHarness() *harness {
	store := newMemStore()
	store.products[productA] = &entity.Product{
		ID: productA, CompanyID: companyA, SKU: "SKU-001", Name: "Tornillos",
		UnitPrice: decimal.NewFromInt(10), CurrentStock: 50, ReorderLevel: 5,
	}
	store.products[productA2] = &entity.Product{
		ID: productA2, CompanyID: companyA, SKU: "SKU-002", Name: "Tuercas",
		UnitPrice: decimal.NewFromInt(4), CurrentStock: 20, ReorderLevel: 10,
	}
	subs := &captureSubscriber{}
	bus := events.NewInMemoryBus()
	bus.Subscribe(subs)
	return &harness{
		store: store,
		subs:  subs,
		uc: inventory.NewUseCase(
			&fakeTx{store: store},
			&fakeProducts{store: store},
			&fakeMoves{store: store},
			bus,
		),
	}
}

func staffPrincipal() policy.Principal {
	return policy.Principal{UserID: staffA, Role: policy.RoleStaff, CompanyID: companyA}
}

func ownerPrincipal() policy.Principal {
	return policy.Principal{UserID: staffA, Role: policy.RoleCompanyOwner, CompanyID: companyA}
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_EntradaAjustaCacheYRegistraMovimiento(t *testing.T) {
	h := newHarness()

	out, err := h.uc.Apply(context.Background(), staffPrincipal(), dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeIn, Quantity: 25,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(75), out.NewStock)
	assert.False(t, out.Replayed)
	assert.Equal(t, int64(75), h.store.products[productA].CurrentStock)
	require.Len(t, h.store.movements, 1)
	assert.Equal(t, companyA, h.store.movements[0].CompanyID)
	assert.Equal(t, staffA, h.store.movements[0].UserID)
	assert.Nil(t, h.store.movements[0].BatchID)
}

func TestApply_SalidaPuedeDejarStockNegativo(t *testing.T) {
	h := newHarness()

	out, err := h.uc.Apply(context.Background(), staffPrincipal(), dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeOut, Quantity: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-10), out.NewStock)
	assert.Equal(t, int64(-10), h.store.products[productA].CurrentStock)
}

func TestApply_CantidadInvalidaNoTocaNada(t *testing.T) {
	h := newHarness()

	_, err := h.uc.Apply(context.Background(), staffPrincipal(), dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeIn, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, h.store.movements)
	assert.Equal(t, int64(50), h.store.products[productA].CurrentStock)
}

func TestApply_ProductoInexistente(t *testing.T) {
	h := newHarness()

	_, err := h.uc.Apply(context.Background(), staffPrincipal(), dto.ApplyMovementRequest{
		ProductID: "deadbeef-0000-0000-0000-000000000000", Type: entity.MovementTypeIn, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApply_CrossTenantDenegado(t *testing.T) {
	h := newHarness()
	intruso := policy.Principal{UserID: staffA, Role: policy.RoleStaff, CompanyID: companyB}

	_, err := h.uc.Apply(context.Background(), intruso, dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeIn, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, h.store.movements)
}

func TestApply_ReintentoConMismaClaveEsReplay(t *testing.T) {
	h := newHarness()
	req := dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeIn, Quantity: 10,
		IdempotencyKey: "pedido-77",
	}

	first, err := h.uc.Apply(context.Background(), staffPrincipal(), req)
	require.NoError(t, err)
	require.False(t, first.Replayed)

	second, err := h.uc.Apply(context.Background(), staffPrincipal(), req)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Movement.ID, second.Movement.ID)

	// El reintento no insertó nada ni ajustó stock de nuevo.
	assert.Len(t, h.store.movements, 1)
	assert.Equal(t, int64(60), h.store.products[productA].CurrentStock)
}

func TestApply_MismaClaveEnOtraEmpresaNoColisiona(t *testing.T) {
	h := newHarness()
	h.store.products["bbbbbbbb-1111-0000-0000-000000000001"] = &entity.Product{
		ID: "bbbbbbbb-1111-0000-0000-000000000001", CompanyID: companyB,
		SKU: "SKU-001", Name: "Tornillos B", CurrentStock: 5, ReorderLevel: 0,
	}

	_, err := h.uc.Apply(context.Background(), staffPrincipal(), dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeIn, Quantity: 1, IdempotencyKey: "k1",
	})
	require.NoError(t, err)

	otro := policy.Principal{UserID: staffA, Role: policy.RoleStaff, CompanyID: companyB}
	out, err := h.uc.Apply(context.Background(), otro, dto.ApplyMovementRequest{
		ProductID: "bbbbbbbb-1111-0000-0000-000000000001", Type: entity.MovementTypeIn, Quantity: 1, IdempotencyKey: "k1",
	})
	require.NoError(t, err)
	assert.False(t, out.Replayed, "la clave de idempotencia tiene alcance por empresa")
	assert.Len(t, h.store.movements, 2)
}

func TestApply_PublicaStockChangedYLowStock(t *testing.T) {
	h := newHarness()

	// 50 - 46 = 4 <= reorder_level 5: debe salir también la alerta.
	_, err := h.uc.Apply(context.Background(), staffPrincipal(), dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeOut, Quantity: 46,
	})
	require.NoError(t, err)

	require.Len(t, h.subs.stockChanged, 1)
	assert.Equal(t, int64(4), h.subs.stockChanged[0].NewStock)
	require.Len(t, h.subs.lowStock, 1)
	assert.Equal(t, "Tornillos", h.subs.lowStock[0].ProductName)
	assert.Equal(t, int64(5), h.subs.lowStock[0].ReorderLevel)
}

func TestApply_SinCruzarUmbralNoHayAlerta(t *testing.T) {
	h := newHarness()

	_, err := h.uc.Apply(context.Background(), staffPrincipal(), dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeOut, Quantity: 10,
	})
	require.NoError(t, err)
	assert.Len(t, h.subs.stockChanged, 1)
	assert.Empty(t, h.subs.lowStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyBulk
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyBulk_CompartenBatchID(t *testing.T) {
	h := newHarness()

	out, err := h.uc.ApplyBulk(context.Background(), staffPrincipal(), dto.BulkMovementRequest{
		Movements: []dto.ApplyMovementRequest{
			{ProductID: productA, Type: entity.MovementTypeIn, Quantity: 5},
			{ProductID: productA2, Type: entity.MovementTypeOut, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Applied)
	require.NotEmpty(t, out.BatchID)

	require.Len(t, h.store.movements, 2)
	for _, m := range h.store.movements {
		require.NotNil(t, m.BatchID)
		assert.Equal(t, out.BatchID, *m.BatchID)
	}
	assert.Equal(t, int64(55), h.store.products[productA].CurrentStock)
	assert.Equal(t, int64(17), h.store.products[productA2].CurrentStock)
}

func TestApplyBulk_TodoONada(t *testing.T) {
	h := newHarness()

	_, err := h.uc.ApplyBulk(context.Background(), staffPrincipal(), dto.BulkMovementRequest{
		Movements: []dto.ApplyMovementRequest{
			{ProductID: productA, Type: entity.MovementTypeIn, Quantity: 5},
			{ProductID: "deadbeef-0000-0000-0000-000000000000", Type: entity.MovementTypeIn, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// La primera fila también debe revertirse.
	assert.Empty(t, h.store.movements)
	assert.Equal(t, int64(50), h.store.products[productA].CurrentStock)
	assert.Empty(t, h.subs.stockChanged, "un lote revertido no publica eventos")
}

func TestApplyBulk_LoteVacioInvalido(t *testing.T) {
	h := newHarness()
	_, err := h.uc.ApplyBulk(context.Background(), staffPrincipal(), dto.BulkMovementRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// RollbackBatch / RecomputeStock
// ──────────────────────────────────────────────────────────────────────────────

func TestRollbackBatch_EliminaYReconcilia(t *testing.T) {
	h := newHarness()

	bulk, err := h.uc.ApplyBulk(context.Background(), staffPrincipal(), dto.BulkMovementRequest{
		Movements: []dto.ApplyMovementRequest{
			{ProductID: productA, Type: entity.MovementTypeIn, Quantity: 30},
			{ProductID: productA2, Type: entity.MovementTypeOut, Quantity: 8},
		},
	})
	require.NoError(t, err)

	deleted, err := h.uc.RollbackBatch(context.Background(), ownerPrincipal(), bulk.BatchID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	assert.Empty(t, h.store.movements)
	assert.Equal(t, int64(0), h.store.products[productA].CurrentStock,
		"tras el rollback la caché se reconcilia contra el ledger restante")
	assert.Equal(t, int64(0), h.store.products[productA2].CurrentStock)
}

func TestRollbackBatch_StaffDenegado(t *testing.T) {
	h := newHarness()

	bulk, err := h.uc.ApplyBulk(context.Background(), staffPrincipal(), dto.BulkMovementRequest{
		Movements: []dto.ApplyMovementRequest{
			{ProductID: productA, Type: entity.MovementTypeIn, Quantity: 1},
		},
	})
	require.NoError(t, err)

	_, err = h.uc.RollbackBatch(context.Background(), staffPrincipal(), bulk.BatchID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, h.store.movements, 1)
}

func TestRollbackBatch_LoteInexistente(t *testing.T) {
	h := newHarness()
	_, err := h.uc.RollbackBatch(context.Background(), ownerPrincipal(), "deadbeef-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecomputeStock_CorrigeDeriva(t *testing.T) {
	h := newHarness()

	_, err := h.uc.Apply(context.Background(), staffPrincipal(), dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeIn, Quantity: 10,
	})
	require.NoError(t, err)

	// Deriva inducida: la caché se desvía del ledger.
	h.store.products[productA].CurrentStock = 999

	out, err := h.uc.RecomputeStock(context.Background(), ownerPrincipal(), productA)
	require.NoError(t, err)
	assert.True(t, out.Corrected)
	assert.Equal(t, int64(999), out.PreviousStock)
	assert.Equal(t, int64(10), out.ComputedStock)
	assert.Equal(t, int64(10), h.store.products[productA].CurrentStock)
}

func TestRecomputeStock_SinDerivaNoEscribe(t *testing.T) {
	h := newHarness()
	h.store.products[productA].CurrentStock = 0

	out, err := h.uc.RecomputeStock(context.Background(), ownerPrincipal(), productA)
	require.NoError(t, err)
	assert.False(t, out.Corrected)
	assert.Equal(t, int64(0), out.ComputedStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// History
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_PorProductoAcotadoAlAlcance(t *testing.T) {
	h := newHarness()
	_, err := h.uc.Apply(context.Background(), staffPrincipal(), dto.ApplyMovementRequest{
		ProductID: productA, Type: entity.MovementTypeIn, Quantity: 2,
	})
	require.NoError(t, err)

	out, err := h.uc.History(context.Background(), staffPrincipal(), dto.MovementHistoryRequest{ProductID: productA})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)

	intruso := policy.Principal{UserID: staffA, Role: policy.RoleStaff, CompanyID: companyB}
	_, err = h.uc.History(context.Background(), intruso, dto.MovementHistoryRequest{ProductID: productA})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestHistory_SuperAdminSinProductoExigeFiltro(t *testing.T) {
	h := newHarness()
	admin := policy.Principal{UserID: staffA, Role: policy.RoleSuperAdmin}
	_, err := h.uc.History(context.Background(), admin, dto.MovementHistoryRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
