package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement fila del ledger: entrada, salida y devoluciones de un ítem en una fecha.
// BalanceAfter es el saldo del ítem inmediatamente después de aplicar el movimiento.
type Movement struct {
	ID           string
	Seq          int64 // orden de inserción; desempata movimientos con la misma fecha
	ItemID       string
	ItemClass    ItemClass
	Date         time.Time
	StockIn      decimal.Decimal
	StockOut     decimal.Decimal
	Returns      decimal.Decimal
	BalanceAfter decimal.Decimal
	Notes        string
	User         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Delta efecto neto sobre el saldo: stockIn - stockOut + returns.
func (m *Movement) Delta() decimal.Decimal {
	return m.StockIn.Sub(m.StockOut).Add(m.Returns)
}

// IsEmpty true si las tres cantidades son cero (no se persiste).
func (m *Movement) IsEmpty() bool {
	return m.StockIn.IsZero() && m.StockOut.IsZero() && m.Returns.IsZero()
}

// Before orden cronológico del ledger: fecha y luego secuencia de inserción.
func (m *Movement) Before(o *Movement) bool {
	if !m.Date.Equal(o.Date) {
		return m.Date.Before(o.Date)
	}
	return m.Seq < o.Seq
}
