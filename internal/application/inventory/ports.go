package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: ninguna escritura parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// IdempotencyStore reserva claves de operación provistas por el cliente.
// Claim devuelve false si la clave ya estaba reservada.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Recorder recibe métricas del motor de stock.
type Recorder interface {
	MovementsCommitted(class entity.ItemClass, source string, n int)
	Rejected(op, reason string)
	Replayed(class entity.ItemClass, changed int)
}

// LowStockRenderer genera el reporte de stock bajo (PDF).
type LowStockRenderer interface {
	RenderLowStock(ctx context.Context, class entity.ItemClass, items []*entity.Item, generatedAt time.Time) ([]byte, error)
}

type nopRecorder struct{}

func (nopRecorder) MovementsCommitted(entity.ItemClass, string, int) {}
func (nopRecorder) Rejected(string, string)                          {}
func (nopRecorder) Replayed(entity.ItemClass, int)                   {}
