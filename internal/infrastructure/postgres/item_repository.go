package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, class, name, unit, unit_price, quantity, reorder_level, last_updated, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	var class string
	err := row.Scan(&i.ID, &class, &i.Name, &i.Unit, &i.UnitPrice, &i.Quantity, &i.ReorderLevel,
		&i.LastUpdated, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	i.Class = entity.ItemClass(class)
	return &i, nil
}

func collectItems(rows pgx.Rows) ([]*entity.Item, error) {
	defer rows.Close()
	var out []*entity.Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Create inserta el ítem.
func (r *ItemRepo) Create(ctx context.Context, i *entity.Item) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		i.ID, string(i.Class), i.Name, i.Unit, i.UnitPrice, i.Quantity, i.ReorderLevel,
		i.LastUpdated, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert item", err)
	}
	return nil
}

// GetByID obtiene un ítem; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	i, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get item", err)
	}
	return i, nil
}

// Update persiste todos los campos mutables, incluida la cantidad.
func (r *ItemRepo) Update(ctx context.Context, i *entity.Item) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE items SET name = $2, unit = $3, unit_price = $4, quantity = $5, reorder_level = $6,
			last_updated = $7, updated_at = $8
		WHERE id = $1`,
		i.ID, i.Name, i.Unit, i.UnitPrice, i.Quantity, i.ReorderLevel, i.LastUpdated, i.UpdatedAt,
	)
	if err != nil {
		return wrap("update item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("ítem", i.ID)
	}
	return nil
}

// Delete elimina el ítem; los movimientos caen por ON DELETE CASCADE.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return wrap("delete item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("ítem", id)
	}
	return nil
}

// List ítems de la clase (vacía = todas) ordenados por nombre.
func (r *ItemRepo) List(ctx context.Context, class entity.ItemClass) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE ($1 = '' OR class = $1)
		ORDER BY name, id`, string(class))
	if err != nil {
		return nil, wrap("list items", err)
	}
	out, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	return out, nil
}

// Search coincidencia sin distinguir mayúsculas sobre nombre o id.
func (r *ItemRepo) Search(ctx context.Context, class entity.ItemClass, query string) ([]*entity.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx, class)
	}
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.q.Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE ($1 = '' OR class = $1) AND (name ILIKE $2 OR id ILIKE $2)
		ORDER BY name, id`, string(class), pattern)
	if err != nil {
		return nil, wrap("search items", err)
	}
	out, err := collectItems(rows)
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}
	return out, nil
}

// LockForUpdate SELECT ... FOR UPDATE en orden ascendente de id.
func (r *ItemRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, wrap("lock items", err)
	}
	list, err := collectItems(rows)
	if err != nil {
		return nil, wrap("lock items", err)
	}
	for _, i := range list {
		out[i.ID] = i
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
