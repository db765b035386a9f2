package inventory

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// OverviewUseCase resumen de movimientos por rango de fechas. Peticiones concurrentes
// con el mismo rango comparten un único cálculo.
type OverviewUseCase struct {
	items     repository.ItemRepository
	movements repository.MovementRepository
	group     singleflight.Group
}

// NewOverviewUseCase construye el caso de uso.
func NewOverviewUseCase(items repository.ItemRepository, movements repository.MovementRepository) *OverviewUseCase {
	return &OverviewUseCase{items: items, movements: movements}
}

// Summarize totales de entradas, salidas y devoluciones entre start y end (días inclusivos, YYYY-MM-DD).
func (uc *OverviewUseCase) Summarize(ctx context.Context, start, end string) (*dto.OverviewResponse, error) {
	from, err := parseDay("start", start)
	if err != nil {
		return nil, err
	}
	to, err := parseDay("end", end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, domain.Validation("end", "la fecha final es anterior a la inicial")
	}

	key := from.Format(dateLayout) + "|" + to.Format(dateLayout)
	shared := context.WithoutCancel(ctx)
	ch := uc.group.DoChan(key, func() (any, error) {
		return uc.summarize(shared, from, to)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.OverviewResponse), nil
	}
}

func (uc *OverviewUseCase) summarize(ctx context.Context, from, to time.Time) (*dto.OverviewResponse, error) {
	moves, err := uc.movements.ListBetween(ctx, from, endOfDay(to))
	if err != nil {
		return nil, err
	}
	items, err := uc.items.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(items))
	for _, i := range items {
		names[i.ID] = i.Name
	}

	out := &dto.OverviewResponse{
		Start:           from.Format(dateLayout),
		End:             to.Format(dateLayout),
		ProductDetails:  []dto.ItemTotals{},
		MaterialDetails: []dto.ItemTotals{},
	}
	perItem := make(map[string]*dto.ItemTotals)
	classOf := make(map[string]entity.ItemClass)
	for _, m := range moves {
		summary := &out.ProductSummary
		if m.ItemClass == entity.ClassMaterial {
			summary = &out.MaterialSummary
		}
		summary.In = summary.In.Add(m.StockIn)
		summary.Out = summary.Out.Add(m.StockOut)
		summary.Return = summary.Return.Add(m.Returns)

		t, ok := perItem[m.ItemID]
		if !ok {
			t = &dto.ItemTotals{ItemID: m.ItemID, Name: names[m.ItemID]}
			perItem[m.ItemID] = t
			classOf[m.ItemID] = m.ItemClass
		}
		t.In = t.In.Add(m.StockIn)
		t.Out = t.Out.Add(m.StockOut)
		t.Return = t.Return.Add(m.Returns)
	}
	for id, t := range perItem {
		if classOf[id] == entity.ClassMaterial {
			out.MaterialDetails = append(out.MaterialDetails, *t)
		} else {
			out.ProductDetails = append(out.ProductDetails, *t)
		}
	}
	sortTotals(out.ProductDetails)
	sortTotals(out.MaterialDetails)
	return out, nil
}

func sortTotals(list []dto.ItemTotals) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ItemID < list[j].ItemID
	})
}
