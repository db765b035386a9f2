package inventory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// Ledger motor de escritura compartido por los casos de uso que mueven stock.
// Toda mutación corre en una transacción de TxRunner: bloquea los ítems (orden ascendente
// de id), modifica las cadenas en memoria, reproduce saldos y solo entonces escribe.
type Ledger struct {
	txRunner TxRunner
	idem     IdempotencyStore
	metrics  Recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewLedger construye el motor. idem, metrics y log son opcionales (nil).
func NewLedger(txRunner TxRunner, idem IdempotencyStore, metrics Recorder, log *logger.Logger) *Ledger {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{
		txRunner: txRunner,
		idem:     idem,
		metrics:  metrics,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

type idempotencyKeyCtx struct{}

// WithIdempotencyKey adjunta al contexto la referencia de operación enviada por el cliente.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

func idempotencyKey(ctx context.Context) string {
	k, _ := ctx.Value(idempotencyKeyCtx{}).(string)
	return k
}

// ErrAlreadyProcessed la referencia de operación ya fue usada.
var ErrAlreadyProcessed = fmt.Errorf("%w: la petición ya fue procesada", domain.ErrConflict)

// mutate corre fn en una transacción. Si el contexto trae clave de idempotencia,
// la reserva antes y la libera si la operación falla para permitir el reintento.
func (l *Ledger) mutate(ctx context.Context, op string, actor entity.Actor, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	key := idempotencyKey(ctx)
	if key != "" && l.idem != nil {
		scoped := op + ":" + actor.UserID + ":" + key
		ok, err := l.idem.Claim(ctx, scoped)
		if err != nil {
			return fmt.Errorf("reservar clave de idempotencia: %w", err)
		}
		if !ok {
			l.metrics.Rejected(op, "duplicate")
			return ErrAlreadyProcessed
		}
		if err := l.run(ctx, op, fn); err != nil {
			if relErr := l.idem.Release(ctx, scoped); relErr != nil {
				l.log.Warn().Err(relErr).Str("op", op).Msg("liberar clave de idempotencia")
			}
			return err
		}
		return nil
	}
	return l.run(ctx, op, fn)
}

func (l *Ledger) run(ctx context.Context, op string, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	err := l.txRunner.Run(ctx, fn)
	if err != nil {
		l.reject(op, err)
	}
	return err
}

func (l *Ledger) reject(op string, err error) {
	reason := "internal"
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		reason = "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		reason = "validation"
	case errors.Is(err, domain.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, domain.ErrConflict):
		reason = "conflict"
	}
	l.metrics.Rejected(op, reason)
	itemID, field := domain.Details(err)
	l.log.Debug().Err(err).Str("op", op).Str("reason", reason).Str("item_id", itemID).Str("field", field).Msg("operación rechazada")
}

// lockItems bloquea los ítems en orden ascendente de id (sin duplicados) y exige que existan.
func lockItems(ctx context.Context, itemRepo repository.ItemRepository, ids []string) (map[string]*entity.Item, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Strings(uniq)
	locked, err := itemRepo.LockForUpdate(ctx, uniq)
	if err != nil {
		return nil, err
	}
	for _, id := range uniq {
		if _, ok := locked[id]; !ok {
			return nil, domain.NotFound("ítem", id)
		}
	}
	return locked, nil
}

// chain cadena de movimientos de un ítem bloqueado; los cambios quedan en memoria hasta commit.
type chain struct {
	item     *entity.Item
	moves    []*entity.Movement
	from     int // menor posición afectada
	maxSeq   int64
	inserted []*entity.Movement
	edited   []*entity.Movement
	removed  []string
}

func loadChain(ctx context.Context, movRepo repository.MovementRepository, item *entity.Item) (*chain, error) {
	moves, err := movRepo.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	ledger.Sort(moves)
	c := &chain{item: item, moves: moves, from: len(moves)}
	for _, m := range moves {
		if m.Seq > c.maxSeq {
			c.maxSeq = m.Seq
		}
	}
	return c, nil
}

func (c *chain) touch(pos int) {
	if pos >= 0 && pos < c.from {
		c.from = pos
	}
}

// insert agrega un movimiento nuevo; a igual fecha queda después de los existentes.
func (c *chain) insert(m *entity.Movement) {
	c.maxSeq++
	m.Seq = c.maxSeq
	m.ItemID = c.item.ID
	m.ItemClass = c.item.Class
	c.moves = append(c.moves, m)
	ledger.Sort(c.moves)
	c.touch(ledger.IndexOf(c.moves, m.ID))
	c.inserted = append(c.inserted, m)
}

// edit aplica fn al movimiento y lo reubica si cambió su fecha.
func (c *chain) edit(id string, fn func(m *entity.Movement)) bool {
	pos := ledger.IndexOf(c.moves, id)
	if pos < 0 {
		return false
	}
	c.touch(pos)
	m := c.moves[pos]
	fn(m)
	ledger.Sort(c.moves)
	c.touch(ledger.IndexOf(c.moves, id))
	if !slices.Contains(c.inserted, m) && !slices.Contains(c.edited, m) {
		c.edited = append(c.edited, m)
	}
	return true
}

func (c *chain) remove(id string) bool {
	pos := ledger.IndexOf(c.moves, id)
	if pos < 0 {
		return false
	}
	m := c.moves[pos]
	c.moves = slices.Delete(c.moves, pos, pos+1)
	c.touch(pos)
	c.edited = slices.DeleteFunc(c.edited, func(e *entity.Movement) bool { return e == m })
	c.removed = append(c.removed, id)
	return true
}

// commit reproduce los saldos desde la menor posición afectada y persiste solo lo que cambió.
// Si algún saldo quedaría negativo no escribe nada.
func (c *chain) commit(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	now time.Time,
) (ledger.Result, error) {
	res, err := ledger.Replay(c.item.ID, c.moves, c.from, c.item.Class.Precision())
	if err != nil {
		return res, err
	}
	for _, id := range c.removed {
		if err := movRepo.Delete(ctx, id); err != nil {
			return res, err
		}
	}
	for _, m := range c.inserted {
		m.CreatedAt = now
		m.UpdatedAt = now
		if err := movRepo.Create(ctx, m); err != nil {
			return res, err
		}
	}
	for _, m := range c.edited {
		m.UpdatedAt = now
		if err := movRepo.Update(ctx, m); err != nil {
			return res, err
		}
	}
	var shifted []*entity.Movement
	for _, i := range res.Changed {
		m := c.moves[i]
		if slices.Contains(c.inserted, m) || slices.Contains(c.edited, m) {
			continue
		}
		m.UpdatedAt = now
		shifted = append(shifted, m)
	}
	if len(shifted) > 0 {
		if err := movRepo.UpdateBalances(ctx, shifted); err != nil {
			return res, err
		}
	}
	c.item.Quantity = res.Balance
	c.item.LastUpdated = now
	c.item.UpdatedAt = now
	if err := itemRepo.Update(ctx, c.item); err != nil {
		return res, err
	}
	return res, nil
}

// normalizeAmount valida un monto >= 0 según la precisión de la clase:
// productos no admiten fracciones, materiales se redondean a 3 decimales.
func normalizeAmount(class entity.ItemClass, field, itemID string, v decimal.Decimal) (decimal.Decimal, error) {
	if v.IsNegative() {
		return v, &domain.Error{Kind: domain.ErrInvalidInput, ItemID: itemID, Field: field, Message: "no puede ser negativo"}
	}
	p := class.Precision()
	if class == entity.ClassProduct && !p.Fits(v) {
		return v, &domain.Error{Kind: domain.ErrInvalidInput, ItemID: itemID, Field: field, Message: "los productos solo admiten cantidades enteras"}
	}
	return p.Round(v), nil
}
