package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia del catálogo (productos y materias primas).
// GetByID devuelve (nil, nil) si el ítem no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// Update persiste todos los campos, incluida la cantidad; solo el motor de stock la cambia.
	Update(ctx context.Context, item *entity.Item) error
	// Delete elimina el ítem y en cascada sus movimientos. ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	// List lista por clase; clase vacía lista todo. Orden por nombre.
	List(ctx context.Context, class entity.ItemClass) ([]*entity.Item, error)
	Search(ctx context.Context, class entity.ItemClass, query string) ([]*entity.Item, error)
	// LockForUpdate bloquea las filas (SELECT FOR UPDATE) en orden ascendente de id.
	// Los ids ausentes no aparecen en el mapa.
	LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Item, error)
}
