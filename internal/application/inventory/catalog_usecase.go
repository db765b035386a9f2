package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CatalogUseCase casos de uso del catálogo de ítems. La cantidad nunca se escribe directo:
// una cantidad inicial o un cambio de cantidad se registra como movimiento implícito sin notas.
type CatalogUseCase struct {
	ledger   *Ledger
	items    repository.ItemRepository
	renderer LowStockRenderer
}

// NewCatalogUseCase construye el caso de uso. renderer puede ser nil (sin reporte PDF).
func NewCatalogUseCase(ledger *Ledger, items repository.ItemRepository, renderer LowStockRenderer) *CatalogUseCase {
	return &CatalogUseCase{ledger: ledger, items: items, renderer: renderer}
}

// Create crea un ítem; si trae cantidad inicial registra la entrada correspondiente.
func (uc *CatalogUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	class := entity.ItemClass(in.Class)
	if !class.Valid() {
		return nil, domain.Validation("class", "clase inválida %q (product o material)", in.Class)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("name", "el nombre es requerido")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.Validation("unit_price", "el precio no puede ser negativo")
	}
	reorder := entity.DefaultReorderLevel
	if in.ReorderLevel != nil {
		if in.ReorderLevel.IsNegative() {
			return nil, domain.Validation("reorder_level", "el nivel de reorden no puede ser negativo")
		}
		reorder = *in.ReorderLevel
	}
	qty, err := normalizeAmount(class, "quantity", "", in.Quantity)
	if err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = class.DefaultUnit()
	}

	now := uc.ledger.now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		Class:        class,
		Name:         name,
		Unit:         unit,
		UnitPrice:    in.UnitPrice,
		Quantity:     decimal.Zero,
		ReorderLevel: reorder,
		LastUpdated:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.ledger.mutate(ctx, "create_item", actor, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if qty.IsZero() {
			return nil
		}
		c := &chain{item: item}
		c.insert(&entity.Movement{ID: uuid.New().String(), Date: now, StockIn: qty, User: actor.Label()})
		_, err := c.commit(ctx, itemRepo, movRepo, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if qty.IsPositive() {
		uc.ledger.metrics.MovementsCommitted(class, "create_item", 1)
	}
	uc.ledger.log.Info().Str("item_id", item.ID).Str("class", string(class)).Str("user", actor.Label()).Msg("ítem creado")
	return toItemResponse(item), nil
}

// Update actualización parcial. Un cambio de cantidad genera un movimiento implícito
// (entrada por la diferencia positiva, salida por la negativa) en la misma transacción.
func (uc *CatalogUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Validation("name", "el nombre no puede quedar vacío")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.Validation("unit_price", "el precio no puede ser negativo")
	}
	if in.ReorderLevel != nil && in.ReorderLevel.IsNegative() {
		return nil, domain.Validation("reorder_level", "el nivel de reorden no puede ser negativo")
	}

	var out *entity.Item
	implicit := false
	err := uc.ledger.mutate(ctx, "update_item", actor, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error {
		locked, err := lockItems(ctx, itemRepo, []string{id})
		if err != nil {
			return err
		}
		item := locked[id]
		now := uc.ledger.now()
		if in.Name != nil {
			item.Name = strings.TrimSpace(*in.Name)
		}
		if in.Unit != nil {
			item.Unit = strings.TrimSpace(*in.Unit)
			if item.Unit == "" {
				item.Unit = item.Class.DefaultUnit()
			}
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}
		if in.ReorderLevel != nil {
			item.ReorderLevel = *in.ReorderLevel
		}
		out = item

		if in.Quantity != nil {
			target, err := normalizeAmount(item.Class, "quantity", item.ID, *in.Quantity)
			if err != nil {
				return err
			}
			diff := target.Sub(item.Quantity)
			if !diff.IsZero() {
				c, err := loadChain(ctx, movRepo, item)
				if err != nil {
					return err
				}
				m := &entity.Movement{ID: uuid.New().String(), Date: now, User: actor.Label()}
				if diff.IsPositive() {
					m.StockIn = diff
				} else {
					m.StockOut = diff.Neg()
				}
				c.insert(m)
				implicit = true
				_, err = c.commit(ctx, itemRepo, movRepo, now)
				return err
			}
		}
		item.UpdatedAt = now
		return itemRepo.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	if implicit {
		uc.ledger.metrics.MovementsCommitted(out.Class, "update_item", 1)
	}
	uc.ledger.log.Info().Str("item_id", id).Bool("quantity_changed", implicit).Str("user", actor.Label()).Msg("ítem actualizado")
	return toItemResponse(out), nil
}

// Delete elimina el ítem y en cascada todos sus movimientos.
func (uc *CatalogUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	err := uc.ledger.mutate(ctx, "delete_item", actor, func(
		itemRepo repository.ItemRepository,
		_ repository.MovementRepository,
	) error {
		if _, err := lockItems(ctx, itemRepo, []string{id}); err != nil {
			return err
		}
		return itemRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.ledger.log.Info().Str("item_id", id).Str("user", actor.Label()).Msg("ítem eliminado")
	return nil
}

// GetByID obtiene un ítem.
func (uc *CatalogUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("ítem", id)
	}
	return toItemResponse(item), nil
}

// List lista ítems de una clase (vacía = todas); con query filtra por nombre o id.
func (uc *CatalogUseCase) List(ctx context.Context, class, query string) (*dto.ItemListResponse, error) {
	c, err := parseClass(class)
	if err != nil {
		return nil, err
	}
	var list []*entity.Item
	if strings.TrimSpace(query) != "" {
		list, err = uc.items.Search(ctx, c, query)
	} else {
		list, err = uc.items.List(ctx, c)
	}
	if err != nil {
		return nil, err
	}
	return toItemList(list), nil
}

// LowStock ítems en o bajo su nivel de reorden, con el faltante.
func (uc *CatalogUseCase) LowStock(ctx context.Context, class string) (*dto.LowStockListResponse, error) {
	list, err := uc.lowStock(ctx, class)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemResponse, 0, len(list))
	for _, i := range list {
		out = append(out, dto.LowStockItemResponse{ItemResponse: *toItemResponse(i), Shortage: i.Shortage()})
	}
	return &dto.LowStockListResponse{Items: out, Total: len(out)}, nil
}

// LowStockReport genera el PDF de stock bajo de una clase.
func (uc *CatalogUseCase) LowStockReport(ctx context.Context, class string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, errors.New("reporte de stock bajo no configurado")
	}
	c, err := parseClass(class)
	if err != nil {
		return nil, err
	}
	list, err := uc.lowStock(ctx, class)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderLowStock(ctx, c, list, uc.ledger.now())
}

func (uc *CatalogUseCase) lowStock(ctx context.Context, class string) ([]*entity.Item, error) {
	c, err := parseClass(class)
	if err != nil {
		return nil, err
	}
	all, err := uc.items.List(ctx, c)
	if err != nil {
		return nil, err
	}
	low := make([]*entity.Item, 0, len(all))
	for _, i := range all {
		if i.IsLowStock() {
			low = append(low, i)
		}
	}
	return low, nil
}

// Dashboard conteos, stock bajo y valor del inventario (cantidad x precio) por clase.
func (uc *CatalogUseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	all, err := uc.items.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := &dto.DashboardResponse{}
	for _, i := range all {
		stats := &out.Products
		if i.Class == entity.ClassMaterial {
			stats = &out.Materials
		}
		stats.Count++
		stats.StockValue = stats.StockValue.Add(i.Value())
		if i.IsLowStock() {
			stats.LowStock++
			out.LowStockCount++
		}
	}
	return out, nil
}

func parseClass(class string) (entity.ItemClass, error) {
	c := entity.ItemClass(strings.TrimSpace(class))
	if c != "" && !c.Valid() {
		return "", domain.Validation("class", "clase inválida %q (product o material)", class)
	}
	return c, nil
}
