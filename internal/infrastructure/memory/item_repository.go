package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepository)(nil)

// ItemRepository implementación en memoria del catálogo.
type ItemRepository struct {
	access access
}

// Create inserta un ítem.
func (r *ItemRepository) Create(_ context.Context, item *entity.Item) error {
	return r.access(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		st.items[item.ID] = copyItem(item)
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ItemRepository) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.access(func(st *state) error {
		out = copyItem(st.items[id])
		return nil
	})
	return out, err
}

// Update reemplaza el ítem.
func (r *ItemRepository) Update(_ context.Context, item *entity.Item) error {
	return r.access(func(st *state) error {
		if _, ok := st.items[item.ID]; !ok {
			return domain.NotFound("ítem", item.ID)
		}
		st.items[item.ID] = copyItem(item)
		return nil
	})
}

// Delete elimina el ítem y sus movimientos.
func (r *ItemRepository) Delete(_ context.Context, id string) error {
	return r.access(func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.NotFound("ítem", id)
		}
		delete(st.items, id)
		for mid, m := range st.movements {
			if m.ItemID == id {
				delete(st.movements, mid)
			}
		}
		return nil
	})
}

// List ítems de la clase (vacía = todas) ordenados por nombre.
func (r *ItemRepository) List(ctx context.Context, class entity.ItemClass) ([]*entity.Item, error) {
	return r.Search(ctx, class, "")
}

// Search ítems cuyo nombre o id contiene query, sin distinguir mayúsculas.
func (r *ItemRepository) Search(_ context.Context, class entity.ItemClass, query string) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.access(func(st *state) error {
		for _, i := range st.items {
			if class != "" && i.Class != class {
				continue
			}
			if !i.Matches(query) {
				continue
			}
			out = append(out, copyItem(i))
		}
		return nil
	})
	sort.Slice(out, func(a, b int) bool {
		if out[a].Name != out[b].Name {
			return out[a].Name < out[b].Name
		}
		return out[a].ID < out[b].ID
	})
	return out, err
}

// LockForUpdate dentro de Store.Run el lock ya es exclusivo; devuelve copias de los ítems existentes.
func (r *ItemRepository) LockForUpdate(_ context.Context, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	err := r.access(func(st *state) error {
		for _, id := range ids {
			if i, ok := st.items[id]; ok {
				out[id] = copyItem(i)
			}
		}
		return nil
	})
	return out, err
}
