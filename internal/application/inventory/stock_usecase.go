package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockUseCase ajustes rápidos y carga masiva de movimientos.
type StockUseCase struct {
	ledger *Ledger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(ledger *Ledger) *StockUseCase {
	return &StockUseCase{ledger: ledger}
}

// Adjust suma (add) o resta (remove) amount al ítem con un movimiento fechado ahora.
// Rechaza con ErrInsufficientStock si la salida deja el saldo negativo.
func (uc *StockUseCase) Adjust(ctx context.Context, actor entity.Actor, itemID string, in dto.AdjustStockRequest) (*dto.StockChangeResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, &domain.Error{Kind: domain.ErrInvalidInput, ItemID: itemID, Field: "amount", Message: "debe ser mayor que 0"}
	}
	if in.Direction != "add" && in.Direction != "remove" {
		return nil, domain.Validation("direction", "dirección inválida %q (add o remove)", in.Direction)
	}

	var out *dto.StockChangeResponse
	var class entity.ItemClass
	err := uc.ledger.mutate(ctx, "adjust", actor, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		locked, err := lockItems(ctx, itemRepo, []string{itemID})
		if err != nil {
			return err
		}
		item := locked[itemID]
		class = item.Class
		amount, err := normalizeAmount(item.Class, "amount", item.ID, in.Amount)
		if err != nil {
			return err
		}
		if amount.IsZero() {
			return &domain.Error{Kind: domain.ErrInvalidInput, ItemID: itemID, Field: "amount", Message: "debe ser mayor que 0"}
		}

		c, err := loadChain(ctx, movRepo, item)
		if err != nil {
			return err
		}
		now := uc.ledger.now()
		m := &entity.Movement{ID: uuid.New().String(), Date: now, Notes: strings.TrimSpace(in.Notes), User: actor.Label()}
		if in.Direction == "add" {
			m.StockIn = amount
		} else {
			m.StockOut = amount
		}
		c.insert(m)
		res, err := c.commit(ctx, itemRepo, movRepo, now)
		if err != nil {
			return err
		}
		uc.ledger.metrics.Replayed(item.Class, len(res.Changed))
		out = &dto.StockChangeResponse{Movement: toMovementResponse(m, item.Name), Item: *toItemResponse(item)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.metrics.MovementsCommitted(class, "adjust", 1)
	uc.ledger.log.Info().
		Str("item_id", itemID).
		Str("direction", in.Direction).
		Str("amount", in.Amount.String()).
		Str("user", actor.Label()).
		Msg("stock ajustado")
	return out, nil
}

// BulkSubmit registra en una sola transacción todas las filas con algún valor distinto de cero.
// Todas las filas deben ser de la clase indicada; si una fila deja un saldo negativo no se guarda ninguna.
func (uc *StockUseCase) BulkSubmit(ctx context.Context, actor entity.Actor, in dto.BulkEntryRequest) (*dto.BulkSubmitResponse, error) {
	class := entity.ItemClass(in.Class)
	if !class.Valid() {
		return nil, domain.Validation("class", "clase inválida %q (product o material)", in.Class)
	}
	now := uc.ledger.now()
	date, err := parseEntryDate("date", in.Date, now)
	if err != nil {
		return nil, err
	}

	lines := make([]dto.BulkEntryLine, 0, len(in.Entries))
	ids := make([]string, 0, len(in.Entries))
	for _, e := range in.Entries {
		for field, v := range map[string]decimal.Decimal{"stock_in": e.StockIn, "stock_out": e.StockOut, "returns": e.Returns} {
			if v.IsNegative() {
				return nil, &domain.Error{Kind: domain.ErrInvalidInput, ItemID: e.ItemID, Field: field, Message: "no puede ser negativo"}
			}
		}
		if e.StockIn.IsZero() && e.StockOut.IsZero() && e.Returns.IsZero() {
			continue
		}
		if strings.TrimSpace(e.ItemID) == "" {
			return nil, domain.Validation("item_id", "cada fila debe indicar el ítem")
		}
		lines = append(lines, e)
		ids = append(ids, e.ItemID)
	}
	if len(lines) == 0 {
		return nil, domain.Validation("entries", "ingrese cambios de stock para al menos un ítem")
	}

	var saved []*entity.Movement
	names := make(map[string]string, len(ids))
	err = uc.ledger.mutate(ctx, "bulk_submit", actor, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		saved = saved[:0]
		locked, err := lockItems(ctx, itemRepo, ids)
		if err != nil {
			return err
		}
		chains := make(map[string]*chain, len(locked))
		for _, e := range lines {
			item := locked[e.ItemID]
			if item.Class != class {
				return &domain.Error{
					Kind:    domain.ErrInvalidInput,
					ItemID:  item.ID,
					Field:   "class",
					Message: fmt.Sprintf("el ítem es %s, la carga es de %s", item.Class, class),
				}
			}
			m := &entity.Movement{ID: uuid.New().String(), Date: date, Notes: strings.TrimSpace(e.Notes), User: actor.Label()}
			if m.StockIn, err = normalizeAmount(class, "stock_in", item.ID, e.StockIn); err != nil {
				return err
			}
			if m.StockOut, err = normalizeAmount(class, "stock_out", item.ID, e.StockOut); err != nil {
				return err
			}
			if m.Returns, err = normalizeAmount(class, "returns", item.ID, e.Returns); err != nil {
				return err
			}
			if m.IsEmpty() {
				continue
			}
			c, ok := chains[item.ID]
			if !ok {
				if c, err = loadChain(ctx, movRepo, item); err != nil {
					return err
				}
				chains[item.ID] = c
			}
			c.insert(m)
			names[item.ID] = item.Name
			saved = append(saved, m)
		}

		keys := make([]string, 0, len(chains))
		for id := range chains {
			keys = append(keys, id)
		}
		sort.Strings(keys)
		for _, id := range keys {
			res, err := chains[id].commit(ctx, itemRepo, movRepo, now)
			if err != nil {
				return err
			}
			uc.ledger.metrics.Replayed(class, len(res.Changed))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &dto.BulkSubmitResponse{Saved: len(saved), Movements: make([]dto.MovementResponse, 0, len(saved))}
	for _, m := range saved {
		out.Movements = append(out.Movements, toMovementResponse(m, names[m.ItemID]))
	}
	uc.ledger.metrics.MovementsCommitted(class, "bulk_submit", len(saved))
	uc.ledger.log.Info().
		Str("class", string(class)).
		Int("saved", len(saved)).
		Time("date", date).
		Str("user", actor.Label()).
		Msg("carga masiva registrada")
	return out, nil
}
