package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, seq, item_id, item_class, entry_date, stock_in, stock_out, returns,
	balance_after, notes, user_label, created_at, updated_at`

// MovementRepo ledger de movimientos sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var class string
	err := row.Scan(&m.ID, &m.Seq, &m.ItemID, &class, &m.Date, &m.StockIn, &m.StockOut, &m.Returns,
		&m.BalanceAfter, &m.Notes, &m.User, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.ItemClass = entity.ItemClass(class)
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	defer rows.Close()
	out := []*entity.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create inserta el movimiento; seq lo asigna la secuencia de la tabla.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO movements (id, item_id, item_class, entry_date, stock_in, stock_out, returns,
			balance_after, notes, user_label, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq`,
		m.ID, m.ItemID, string(m.ItemClass), m.Date, m.StockIn, m.StockOut, m.Returns,
		m.BalanceAfter, m.Notes, m.User, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrap("insert movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get movement", err)
	}
	return m, nil
}

// Update reescribe fecha, cantidades, notas, usuario y saldo. seq no cambia.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE movements SET entry_date = $2, stock_in = $3, stock_out = $4, returns = $5,
			balance_after = $6, notes = $7, user_label = $8, updated_at = $9
		WHERE id = $1`,
		m.ID, m.Date, m.StockIn, m.StockOut, m.Returns, m.BalanceAfter, m.Notes, m.User, m.UpdatedAt,
	)
	if err != nil {
		return wrap("update movement", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("movimiento", m.ID)
	}
	return nil
}

// UpdateBalances escribe los saldos reproducidos en un solo round-trip (pgx.Batch).
func (r *MovementRepo) UpdateBalances(ctx context.Context, list []*entity.Movement) error {
	if len(list) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, m := range list {
		b.Queue(`UPDATE movements SET balance_after = $2, updated_at = $3 WHERE id = $1`,
			m.ID, m.BalanceAfter, m.UpdatedAt)
	}
	br := r.q.SendBatch(ctx, b)
	defer br.Close()
	for _, m := range list {
		cmd, err := br.Exec()
		if err != nil {
			return wrap("update balances", err)
		}
		if cmd.RowsAffected() == 0 {
			return domain.NotFound("movimiento", m.ID)
		}
	}
	return nil
}

// Delete elimina el movimiento.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return wrap("delete movement", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("movimiento", id)
	}
	return nil
}

// ListByItem cadena completa del ítem en orden del ledger.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM movements
		WHERE item_id = $1
		ORDER BY entry_date, seq`, itemID)
	if err != nil {
		return nil, wrap("list item movements", err)
	}
	out, err := collectMovements(rows)
	if err != nil {
		return nil, fmt.Errorf("scan movements: %w", err)
	}
	return out, nil
}

// List más recientes primero con filtros opcionales y paginación.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var where []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Class != "" {
		add("item_class = $%d", string(f.Class))
	}
	if f.ItemID != "" {
		add("item_id = $%d", f.ItemID)
	}
	if f.From != nil {
		add("entry_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("entry_date <= $%d", *f.To)
	}
	sql := `SELECT ` + movementColumns + ` FROM movements`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY entry_date DESC, seq DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		sql += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap("list movements", err)
	}
	out, err := collectMovements(rows)
	if err != nil {
		return nil, fmt.Errorf("scan movements: %w", err)
	}
	return out, nil
}

// ListBetween movimientos con fecha en [from, to] en orden del ledger.
func (r *MovementRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM movements
		WHERE entry_date BETWEEN $1 AND $2
		ORDER BY entry_date, seq`, from, to)
	if err != nil {
		return nil, wrap("list movements between", err)
	}
	out, err := collectMovements(rows)
	if err != nil {
		return nil, fmt.Errorf("scan movements: %w", err)
	}
	return out, nil
}
