// Package memory implementa los repositorios y el TxRunner sobre mapas en memoria.
// Una transacción trabaja sobre una copia del estado y la publica solo en Commit,
// con la misma semántica todo-o-nada que la implementación PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	items     map[string]*entity.Item
	movements map[string]*entity.Movement
	batches   map[string]*entity.BatchRecipe
	seq       int64
}

func newState() *state {
	return &state{
		items:     make(map[string]*entity.Item),
		movements: make(map[string]*entity.Movement),
		batches:   make(map[string]*entity.BatchRecipe),
	}
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for id, i := range s.items {
		c.items[id] = copyItem(i)
	}
	for id, m := range s.movements {
		c.movements[id] = copyMovement(m)
	}
	for id, b := range s.batches {
		c.batches[id] = copyBatch(b)
	}
	return c
}

// Store almacén en memoria. Las transacciones se serializan con un único mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// access ejecuta fn con el estado vigente bajo el lock (lecturas y escrituras fuera de transacción).
type access func(fn func(st *state) error) error

func (s *Store) shared(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Items repositorio de ítems fuera de transacción.
func (s *Store) Items() *ItemRepository { return &ItemRepository{access: s.shared} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepository { return &MovementRepository{access: s.shared} }

// Batches repositorio de recetas.
func (s *Store) Batches() *BatchRepository { return &BatchRepository{access: s.shared} }

// Run ejecuta fn sobre una copia del estado; si fn no falla la copia reemplaza al estado vigente.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	direct := func(f func(st *state) error) error { return f(tx) }
	if err := fn(&ItemRepository{access: direct}, &MovementRepository{access: direct}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx
	return nil
}

func copyItem(i *entity.Item) *entity.Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

func copyMovement(m *entity.Movement) *entity.Movement {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func copyBatch(b *entity.BatchRecipe) *entity.BatchRecipe {
	if b == nil {
		return nil
	}
	c := *b
	c.Lines = append([]entity.BatchLine(nil), b.Lines...)
	return &c
}
