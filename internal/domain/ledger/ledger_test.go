package ledger_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/ledger"
)

func mov(t string, qty int64) *entity.StockMovement {
	return &entity.StockMovement{Type: t, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Signed / ComputeStock
// ──────────────────────────────────────────────────────────────────────────────

func TestSigned_EntradaPositivaSalidaNegativa(t *testing.T) {
	assert.Equal(t, int64(7), ledger.Signed(mov(entity.MovementTypeIn, 7)))
	assert.Equal(t, int64(-7), ledger.Signed(mov(entity.MovementTypeOut, 7)))
}

func TestComputeStock_HistorialVacio(t *testing.T) {
	assert.Equal(t, int64(0), ledger.ComputeStock(nil))
	assert.Equal(t, int64(0), ledger.ComputeStock([]*entity.StockMovement{}))
}

func TestComputeStock_SumaFirmada(t *testing.T) {
	historial := []*entity.StockMovement{
		mov(entity.MovementTypeIn, 100),
		mov(entity.MovementTypeOut, 30),
		mov(entity.MovementTypeIn, 5),
		mov(entity.MovementTypeOut, 80),
	}
	// 100 - 30 + 5 - 80 = -5: el ledger admite stock negativo.
	assert.Equal(t, int64(-5), ledger.ComputeStock(historial))
}

func TestComputeStock_ConmutativoAnteReordenes(t *testing.T) {
	historial := []*entity.StockMovement{
		mov(entity.MovementTypeIn, 10),
		mov(entity.MovementTypeOut, 4),
		mov(entity.MovementTypeIn, 3),
		mov(entity.MovementTypeOut, 1),
		mov(entity.MovementTypeIn, 25),
	}
	esperado := ledger.ComputeStock(historial)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rnd.Shuffle(len(historial), func(a, b int) {
			historial[a], historial[b] = historial[b], historial[a]
		})
		assert.Equal(t, esperado, ledger.ComputeStock(historial),
			"el total no debe depender del orden de los movimientos")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateMovement_TiposValidos(t *testing.T) {
	assert.NoError(t, ledger.ValidateMovement(entity.MovementTypeIn, 1))
	assert.NoError(t, ledger.ValidateMovement(entity.MovementTypeOut, 1))
}

func TestValidateMovement_TipoDesconocido(t *testing.T) {
	for _, tipo := range []string{"", "IN", "entrada", "adjustment"} {
		assert.ErrorIs(t, ledger.ValidateMovement(tipo, 1), domain.ErrInvalidInput,
			"el tipo %q debe rechazarse", tipo)
	}
}

func TestValidateMovement_CantidadNoPositiva(t *testing.T) {
	assert.ErrorIs(t, ledger.ValidateMovement(entity.MovementTypeIn, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.ValidateMovement(entity.MovementTypeOut, -5), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// IsLowStock
// ──────────────────────────────────────────────────────────────────────────────

func TestIsLowStock_FronteraInclusiva(t *testing.T) {
	assert.True(t, ledger.IsLowStock(10, 10), "igual al nivel de reorden cuenta como bajo")
	assert.True(t, ledger.IsLowStock(9, 10))
	assert.False(t, ledger.IsLowStock(11, 10))
}

func TestIsLowStock_StockNegativo(t *testing.T) {
	assert.True(t, ledger.IsLowStock(-3, 0))
}
