package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// LogUseCase consulta y corrección de movimientos ya registrados.
// Editar o eliminar un movimiento reproduce los saldos de todos los posteriores del mismo ítem.
type LogUseCase struct {
	ledger    *Ledger
	items     repository.ItemRepository
	movements repository.MovementRepository
}

// NewLogUseCase construye el caso de uso.
func NewLogUseCase(ledger *Ledger, items repository.ItemRepository, movements repository.MovementRepository) *LogUseCase {
	return &LogUseCase{ledger: ledger, items: items, movements: movements}
}

// Edit reemplaza fecha, cantidades y notas del movimiento. Una fecha sin hora conserva la hora original.
func (uc *LogUseCase) Edit(ctx context.Context, actor entity.Actor, logID string, in dto.EditLogRequest) (*dto.StockChangeResponse, error) {
	if in.StockIn.IsZero() && in.StockOut.IsZero() && in.Returns.IsZero() {
		return nil, domain.Validation("stock_in", "el movimiento debe tener al menos un valor distinto de cero")
	}

	var out *dto.StockChangeResponse
	var class entity.ItemClass
	err := uc.ledger.mutate(ctx, "edit_log", actor, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		target, err := movRepo.GetByID(ctx, logID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.NotFound("movimiento", logID)
		}
		locked, err := lockItems(ctx, itemRepo, []string{target.ItemID})
		if err != nil {
			return err
		}
		item := locked[target.ItemID]
		class = item.Class

		date, err := parseEntryDate("date", in.Date, target.Date)
		if err != nil {
			return err
		}
		stockIn, err := normalizeAmount(item.Class, "stock_in", item.ID, in.StockIn)
		if err != nil {
			return err
		}
		stockOut, err := normalizeAmount(item.Class, "stock_out", item.ID, in.StockOut)
		if err != nil {
			return err
		}
		returns, err := normalizeAmount(item.Class, "returns", item.ID, in.Returns)
		if err != nil {
			return err
		}

		c, err := loadChain(ctx, movRepo, item)
		if err != nil {
			return err
		}
		var edited *entity.Movement
		ok := c.edit(logID, func(m *entity.Movement) {
			m.Date = date
			m.StockIn = stockIn
			m.StockOut = stockOut
			m.Returns = returns
			m.Notes = strings.TrimSpace(in.Notes)
			m.User = actor.Label()
			edited = m
		})
		if !ok {
			return domain.NotFound("movimiento", logID)
		}
		if edited.IsEmpty() {
			return &domain.Error{Kind: domain.ErrInvalidInput, ItemID: item.ID, Field: "stock_in", Message: "el movimiento debe tener al menos un valor distinto de cero"}
		}
		res, err := c.commit(ctx, itemRepo, movRepo, uc.ledger.now())
		if err != nil {
			return err
		}
		uc.ledger.metrics.Replayed(item.Class, len(res.Changed))
		out = &dto.StockChangeResponse{Movement: toMovementResponse(edited, item.Name), Item: *toItemResponse(item)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.metrics.MovementsCommitted(class, "edit_log", 1)
	uc.ledger.log.Info().Str("log_id", logID).Str("item_id", out.Item.ID).Str("user", actor.Label()).Msg("movimiento editado")
	return out, nil
}

// Delete elimina el movimiento y devuelve el ítem con su saldo recalculado.
func (uc *LogUseCase) Delete(ctx context.Context, actor entity.Actor, logID string) (*dto.ItemResponse, error) {
	var out *dto.ItemResponse
	err := uc.ledger.mutate(ctx, "delete_log", actor, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		target, err := movRepo.GetByID(ctx, logID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.NotFound("movimiento", logID)
		}
		locked, err := lockItems(ctx, itemRepo, []string{target.ItemID})
		if err != nil {
			return err
		}
		item := locked[target.ItemID]
		c, err := loadChain(ctx, movRepo, item)
		if err != nil {
			return err
		}
		if !c.remove(logID) {
			return domain.NotFound("movimiento", logID)
		}
		res, err := c.commit(ctx, itemRepo, movRepo, uc.ledger.now())
		if err != nil {
			return err
		}
		uc.ledger.metrics.Replayed(item.Class, len(res.Changed))
		out = toItemResponse(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.log.Info().Str("log_id", logID).Str("item_id", out.ID).Str("user", actor.Label()).Msg("movimiento eliminado")
	return out, nil
}

// List movimientos más recientes primero, con filtros de clase, ítem y rango de días inclusivo.
func (uc *LogUseCase) List(ctx context.Context, in dto.ListLogsRequest) (*dto.LogListResponse, error) {
	class, err := parseClass(in.Class)
	if err != nil {
		return nil, err
	}
	filter := repository.MovementFilter{Class: class, ItemID: strings.TrimSpace(in.ItemID), Limit: in.Limit, Offset: in.Offset}
	if filter.Limit <= 0 {
		filter.Limit = defaultLogLimit
	}
	if filter.Limit > maxLogLimit {
		filter.Limit = maxLogLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if strings.TrimSpace(in.From) != "" {
		from, err := parseDay("from", in.From)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if strings.TrimSpace(in.To) != "" {
		to, err := parseDay("to", in.To)
		if err != nil {
			return nil, err
		}
		to = endOfDay(to)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.Validation("to", "la fecha final es anterior a la inicial")
	}

	list, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	out := &dto.LogListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, m := range list {
		name, ok := names[m.ItemID]
		if !ok {
			item, err := uc.items.GetByID(ctx, m.ItemID)
			if err != nil {
				return nil, err
			}
			if item != nil {
				name = item.Name
			}
			names[m.ItemID] = name
		}
		out.Items = append(out.Items, toMovementResponse(m, name))
	}
	return out, nil
}
