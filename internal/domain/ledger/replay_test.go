package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

var day0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mov(id string, seq int64, dayOffset int, in, out, ret string) *entity.Movement {
	return &entity.Movement{
		ID:       id,
		Seq:      seq,
		ItemID:   "M",
		Date:     day0.AddDate(0, 0, dayOffset),
		StockIn:  d(in),
		StockOut: d(out),
		Returns:  d(ret),
	}
}

func balances(chain []*entity.Movement) []string {
	out := make([]string, len(chain))
	for i, m := range chain {
		out[i] = m.BalanceAfter.StringFixed(3)
	}
	return out
}

// requireConsistent verifica el invariante de saldo corrido sobre toda la cadena.
func requireConsistent(t *testing.T, chain []*entity.Movement) {
	t.Helper()
	prior := decimal.Zero
	for i, m := range chain {
		want := prior.Add(m.Delta())
		require.True(t, m.BalanceAfter.Equal(want), "movimiento %d: saldo %s, esperado %s", i, m.BalanceAfter, want)
		require.False(t, m.BalanceAfter.IsNegative(), "movimiento %d negativo", i)
		prior = m.BalanceAfter
	}
}

func TestReplay_DesdeCero(t *testing.T) {
	chain := []*entity.Movement{
		mov("a", 1, 0, "100", "0", "0"),
		mov("b", 2, 1, "0", "20", "0"),
		mov("c", 3, 2, "15", "0", "0"),
	}
	res, err := ledger.Replay("M", chain, 0, entity.MaterialPrecision)
	require.NoError(t, err)

	assert.Equal(t, []string{"100.000", "80.000", "95.000"}, balances(chain))
	assert.True(t, res.Balance.Equal(d("95")))
	assert.Equal(t, []int{0, 1, 2}, res.Changed)
	requireConsistent(t, chain)
}

// Escenario: saldos [100, 80, 95]; se elimina el -20 y se reconcilia a [100, 115].
func TestReplay_EliminarMovimientoIntermedio(t *testing.T) {
	chain := []*entity.Movement{
		mov("a", 1, 0, "100", "0", "0"),
		mov("b", 2, 1, "0", "20", "0"),
		mov("c", 3, 2, "15", "0", "0"),
	}
	_, err := ledger.Replay("M", chain, 0, entity.MaterialPrecision)
	require.NoError(t, err)

	pos := ledger.IndexOf(chain, "b")
	require.Equal(t, 1, pos)
	chain = append(chain[:pos], chain[pos+1:]...)

	res, err := ledger.Replay("M", chain, pos, entity.MaterialPrecision)
	require.NoError(t, err)
	assert.Equal(t, []string{"100.000", "115.000"}, balances(chain))
	assert.True(t, res.Balance.Equal(d("115")))
	assert.Equal(t, []int{1}, res.Changed)
}

func TestReplay_Idempotente(t *testing.T) {
	chain := []*entity.Movement{
		mov("a", 1, 0, "10", "0", "0"),
		mov("b", 2, 1, "0", "4", "1"),
	}
	_, err := ledger.Replay("M", chain, 0, entity.ProductPrecision)
	require.NoError(t, err)

	res, err := ledger.Replay("M", chain, 0, entity.ProductPrecision)
	require.NoError(t, err)
	assert.Empty(t, res.Changed, "una cola consistente no debe cambiar")
	assert.True(t, res.Balance.Equal(d("7")))
}

func TestReplay_SaldoNegativoNoModificaCadena(t *testing.T) {
	chain := []*entity.Movement{
		mov("a", 1, 0, "10", "0", "0"),
		mov("b", 2, 1, "0", "8", "0"),
	}
	_, err := ledger.Replay("M", chain, 0, entity.ProductPrecision)
	require.NoError(t, err)

	// Editar la entrada inicial a 5 deja el segundo saldo en -3.
	chain[0].StockIn = d("5")
	_, err = ledger.Replay("M", chain, 0, entity.ProductPrecision)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	itemID, field := domain.Details(err)
	assert.Equal(t, "M", itemID)
	assert.Equal(t, "quantity", field)
	assert.Contains(t, err.Error(), "b")
	assert.Equal(t, []string{"10.000", "2.000"}, balances(chain), "los saldos previos deben quedar intactos")
}

func TestReplay_CadenaVacia(t *testing.T) {
	res, err := ledger.Replay("M", nil, 0, entity.ProductPrecision)
	require.NoError(t, err)
	assert.True(t, res.Balance.IsZero())
	assert.Empty(t, res.Changed)
}

func TestReplay_FromFueraDeRango(t *testing.T) {
	chain := []*entity.Movement{mov("a", 1, 0, "3", "0", "0")}
	_, err := ledger.Replay("M", chain, -5, entity.ProductPrecision)
	require.NoError(t, err)

	res, err := ledger.Replay("M", chain, 10, entity.ProductPrecision)
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(d("3")), "con from al final el saldo es el del último movimiento")
}

func TestSort_FechaYLuegoSecuencia(t *testing.T) {
	chain := []*entity.Movement{
		mov("tarde", 1, 2, "1", "0", "0"),
		mov("mismo-dia-2", 3, 1, "1", "0", "0"),
		mov("mismo-dia-1", 2, 1, "1", "0", "0"),
		mov("temprano", 4, 0, "1", "0", "0"),
	}
	ledger.Sort(chain)
	ids := make([]string, len(chain))
	for i, m := range chain {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"temprano", "mismo-dia-1", "mismo-dia-2", "tarde"}, ids)
}
