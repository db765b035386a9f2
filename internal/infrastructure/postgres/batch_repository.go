package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo recetas y sus líneas. Save reemplaza las líneas dentro de su propia transacción.
type BatchRepo struct {
	pool *pgxpool.Pool
}

// NewBatchRepository construye el adaptador.
func NewBatchRepository(pool *pgxpool.Pool) *BatchRepo {
	return &BatchRepo{pool: pool}
}

// Save upsert de la cabecera y reemplazo completo de las líneas.
func (r *BatchRepo) Save(ctx context.Context, b *entity.BatchRecipe) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO batches (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`,
		b.ID, b.Name, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return wrap("upsert batch", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM batch_lines WHERE batch_id = $1`, b.ID); err != nil {
		return wrap("delete batch lines", err)
	}
	rows := make([][]any, 0, len(b.Lines))
	for i, l := range b.Lines {
		rows = append(rows, []any{b.ID, i, l.MaterialID, l.Quantity})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"batch_lines"},
		[]string{"batch_id", "position", "material_id", "quantity"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return wrap("insert batch lines", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID receta con sus líneas en orden; (nil, nil) si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.BatchRecipe, error) {
	var b entity.BatchRecipe
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM batches WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get batch", err)
	}
	lines, err := r.lines(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	b.Lines = lines[id]
	return &b, nil
}

// List recetas ordenadas por nombre.
func (r *BatchRepo) List(ctx context.Context) ([]*entity.BatchRecipe, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM batches ORDER BY name, id`)
	if err != nil {
		return nil, wrap("list batches", err)
	}
	defer rows.Close()
	var out []*entity.BatchRecipe
	var ids []string
	for rows.Next() {
		var b entity.BatchRecipe
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, &b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan batches: %w", err)
	}
	if len(ids) == 0 {
		return out, nil
	}
	lines, err := r.lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range out {
		b.Lines = lines[b.ID]
	}
	return out, nil
}

// Delete elimina la receta; las líneas caen por cascada.
func (r *BatchRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return wrap("delete batch", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("receta", id)
	}
	return nil
}

func (r *BatchRepo) lines(ctx context.Context, ids []string) (map[string][]entity.BatchLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT batch_id, material_id, quantity FROM batch_lines
		WHERE batch_id = ANY($1)
		ORDER BY batch_id, position`, ids)
	if err != nil {
		return nil, wrap("list batch lines", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.BatchLine, len(ids))
	for rows.Next() {
		var batchID string
		var l entity.BatchLine
		if err := rows.Scan(&batchID, &l.MaterialID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan batch line: %w", err)
		}
		out[batchID] = append(out[batchID], l)
	}
	return out, rows.Err()
}
