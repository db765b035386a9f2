package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepository)(nil)

// BatchRepository recetas en memoria.
type BatchRepository struct {
	access access
}

// Save crea o reemplaza la receta.
func (r *BatchRepository) Save(_ context.Context, b *entity.BatchRecipe) error {
	return r.access(func(st *state) error {
		st.batches[b.ID] = copyBatch(b)
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *BatchRepository) GetByID(_ context.Context, id string) (*entity.BatchRecipe, error) {
	var out *entity.BatchRecipe
	err := r.access(func(st *state) error {
		out = copyBatch(st.batches[id])
		return nil
	})
	return out, err
}

// List recetas ordenadas por nombre.
func (r *BatchRepository) List(_ context.Context) ([]*entity.BatchRecipe, error) {
	var out []*entity.BatchRecipe
	err := r.access(func(st *state) error {
		for _, b := range st.batches {
			out = append(out, copyBatch(b))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// Delete elimina la receta.
func (r *BatchRepository) Delete(_ context.Context, id string) error {
	return r.access(func(st *state) error {
		if _, ok := st.batches[id]; !ok {
			return domain.NotFound("receta", id)
		}
		delete(st.batches, id)
		return nil
	})
}
