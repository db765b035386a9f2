// Package ledger contiene los servicios de dominio puros del ledger de stock:
// reconciliación de saldos por reproducción hacia adelante y expansión de recetas.
// No conoce la persistencia; los casos de uso cargan la cadena, llaman a Replay y
// persisten solo los movimientos que cambiaron.
package ledger

import (
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Result resultado de una reproducción.
type Result struct {
	Balance decimal.Decimal // saldo final de la cadena (0 si está vacía)
	Changed []int           // índices cuyo BalanceAfter cambió
}

// Sort ordena la cadena por fecha y, a igual fecha, por orden de inserción.
func Sort(chain []*entity.Movement) {
	sort.SliceStable(chain, func(i, j int) bool { return chain[i].Before(chain[j]) })
}

// IndexOf posición del movimiento con ese id, o -1.
func IndexOf(chain []*entity.Movement, id string) int {
	for i, m := range chain {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// Replay recalcula BalanceAfter desde la posición from hasta el final:
// saldo[i] = saldo[i-1] + stockIn - stockOut + returns, con saldo[-1] = 0.
// Si algún saldo queda negativo devuelve ErrInsufficientStock y no modifica la cadena.
// Reproducir una cola ya consistente no cambia nada (Changed vacío).
func Replay(itemID string, chain []*entity.Movement, from int, p entity.Precision) (Result, error) {
	if from < 0 {
		from = 0
	}
	if from > len(chain) {
		from = len(chain)
	}
	prior := decimal.Zero
	if from > 0 {
		prior = chain[from-1].BalanceAfter
	}

	balances := make([]decimal.Decimal, 0, len(chain)-from)
	for _, m := range chain[from:] {
		bal := p.Round(prior.Add(m.Delta()))
		if bal.IsNegative() {
			return Result{}, domain.InsufficientStock(itemID, m.ID, bal)
		}
		balances = append(balances, bal)
		prior = bal
	}

	res := Result{Balance: prior}
	for k, bal := range balances {
		i := from + k
		if !chain[i].BalanceAfter.Equal(bal) {
			chain[i].BalanceAfter = bal
			res.Changed = append(res.Changed, i)
		}
	}
	return res, nil
}
