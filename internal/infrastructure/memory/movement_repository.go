package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepository)(nil)

// MovementRepository implementación en memoria del ledger.
type MovementRepository struct {
	access access
}

// Create inserta el movimiento; asigna ID y una secuencia global creciente.
func (r *MovementRepository) Create(_ context.Context, m *entity.Movement) error {
	return r.access(func(st *state) error {
		if _, ok := st.items[m.ItemID]; !ok {
			return domain.NotFound("ítem", m.ItemID)
		}
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if _, ok := st.movements[m.ID]; ok {
			return domain.ErrDuplicate
		}
		st.seq++
		m.Seq = st.seq
		st.movements[m.ID] = copyMovement(m)
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *MovementRepository) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.access(func(st *state) error {
		out = copyMovement(st.movements[id])
		return nil
	})
	return out, err
}

// Update reemplaza el movimiento conservando ítem y secuencia.
func (r *MovementRepository) Update(_ context.Context, m *entity.Movement) error {
	return r.access(func(st *state) error {
		cur, ok := st.movements[m.ID]
		if !ok {
			return domain.NotFound("movimiento", m.ID)
		}
		c := copyMovement(m)
		c.ItemID = cur.ItemID
		c.ItemClass = cur.ItemClass
		c.Seq = cur.Seq
		c.CreatedAt = cur.CreatedAt
		st.movements[m.ID] = c
		return nil
	})
}

// UpdateBalances escribe solo BalanceAfter y UpdatedAt.
func (r *MovementRepository) UpdateBalances(_ context.Context, list []*entity.Movement) error {
	return r.access(func(st *state) error {
		for _, m := range list {
			cur, ok := st.movements[m.ID]
			if !ok {
				return domain.NotFound("movimiento", m.ID)
			}
			cur.BalanceAfter = m.BalanceAfter
			cur.UpdatedAt = m.UpdatedAt
		}
		return nil
	})
}

// Delete elimina el movimiento.
func (r *MovementRepository) Delete(_ context.Context, id string) error {
	return r.access(func(st *state) error {
		if _, ok := st.movements[id]; !ok {
			return domain.NotFound("movimiento", id)
		}
		delete(st.movements, id)
		return nil
	})
}

// ListByItem cadena del ítem en orden del ledger.
func (r *MovementRepository) ListByItem(_ context.Context, itemID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.access(func(st *state) error {
		for _, m := range st.movements {
			if m.ItemID == itemID {
				out = append(out, copyMovement(m))
			}
		}
		return nil
	})
	ledger.Sort(out)
	return out, err
}

// List más recientes primero (fecha y secuencia descendentes) con filtros y paginación.
func (r *MovementRepository) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.access(func(st *state) error {
		for _, m := range st.movements {
			if f.Class != "" && m.ItemClass != f.Class {
				continue
			}
			if f.ItemID != "" && m.ItemID != f.ItemID {
				continue
			}
			if f.From != nil && m.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && m.Date.After(*f.To) {
				continue
			}
			out = append(out, copyMovement(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Before(out[i]) })
	if f.Offset >= len(out) {
		return []*entity.Movement{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// ListBetween movimientos con fecha en [from, to] en orden del ledger.
func (r *MovementRepository) ListBetween(_ context.Context, from, to time.Time) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.access(func(st *state) error {
		for _, m := range st.movements {
			if m.Date.Before(from) || m.Date.After(to) {
				continue
			}
			out = append(out, copyMovement(m))
		}
		return nil
	})
	ledger.Sort(out)
	return out, err
}
