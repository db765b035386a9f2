package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos (más recientes primero).
type MovementFilter struct {
	Class  entity.ItemClass
	ItemID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia del ledger de movimientos.
type MovementRepository interface {
	// Create asigna ID y Seq si vienen vacíos.
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// Update reescribe fecha, cantidades, notas, usuario y saldo.
	Update(ctx context.Context, movement *entity.Movement) error
	UpdateBalances(ctx context.Context, movements []*entity.Movement) error
	Delete(ctx context.Context, id string) error
	// ListByItem devuelve la cadena completa del ítem en orden del ledger (fecha, seq).
	ListByItem(ctx context.Context, itemID string) ([]*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// ListBetween movimientos con fecha en [from, to], ambos inclusive.
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Movement, error)
}
