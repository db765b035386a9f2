package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// BatchUseCase recetas de consumo de materias primas.
type BatchUseCase struct {
	batches repository.BatchRepository
	items   repository.ItemRepository
	stock   *StockUseCase
	now     func() time.Time
}

// NewBatchUseCase construye el caso de uso. Consume registra las salidas con stock.BulkSubmit.
func NewBatchUseCase(batches repository.BatchRepository, items repository.ItemRepository, stock *StockUseCase) *BatchUseCase {
	return &BatchUseCase{
		batches: batches,
		items:   items,
		stock:   stock,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Save crea (sin id) o reemplaza (con id) una receta. Cada línea debe referir a una materia prima existente.
func (uc *BatchUseCase) Save(ctx context.Context, in dto.SaveBatchRequest) (*dto.BatchResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("name", "el nombre de la receta es requerido")
	}
	lines := make([]entity.BatchLine, 0, len(in.Items))
	for _, l := range in.Items {
		lines = append(lines, entity.BatchLine{
			MaterialID: strings.TrimSpace(l.MaterialID),
			Quantity:   entity.MaterialPrecision.Round(l.Qty),
		})
	}
	if err := ledger.ValidateLines(lines); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(lines))
	for _, l := range lines {
		item, err := uc.items.GetByID(ctx, l.MaterialID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.Class != entity.ClassMaterial {
			return nil, domain.NotFound("materia prima", l.MaterialID)
		}
		names[item.ID] = item.Name
	}

	now := uc.now()
	batch := &entity.BatchRecipe{ID: strings.TrimSpace(in.ID), Name: name, Lines: lines, CreatedAt: now, UpdatedAt: now}
	if batch.ID != "" {
		existing, err := uc.batches.GetByID(ctx, batch.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.NotFound("receta", batch.ID)
		}
		batch.CreatedAt = existing.CreatedAt
	} else {
		batch.ID = uuid.New().String()
	}
	if err := uc.batches.Save(ctx, batch); err != nil {
		return nil, err
	}
	return toBatchResponse(batch, names), nil
}

// Delete elimina la receta; no toca el ledger.
func (uc *BatchUseCase) Delete(ctx context.Context, id string) error {
	return uc.batches.Delete(ctx, id)
}

// GetByID obtiene una receta marcando las líneas cuyo material ya no existe.
func (uc *BatchUseCase) GetByID(ctx context.Context, id string) (*dto.BatchResponse, error) {
	batch, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.NotFound("receta", id)
	}
	names, err := uc.materialNames(ctx)
	if err != nil {
		return nil, err
	}
	return toBatchResponse(batch, names), nil
}

// List lista las recetas.
func (uc *BatchUseCase) List(ctx context.Context) ([]dto.BatchResponse, error) {
	list, err := uc.batches.List(ctx)
	if err != nil {
		return nil, err
	}
	names, err := uc.materialNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBatchResponse(b, names))
	}
	return out, nil
}

// Apply calcula las salidas (cantidad x multiplicador) sin escribir nada.
// Con Tolerant las líneas de materiales eliminados se omiten y se reportan en Skipped.
func (uc *BatchUseCase) Apply(ctx context.Context, id string, in dto.ApplyBatchRequest) (*dto.ApplyBatchResponse, error) {
	if !in.Multiplier.IsPositive() {
		return nil, domain.Validation("multiplier", "el multiplicador debe ser mayor que 0")
	}
	batch, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.NotFound("receta", id)
	}
	proposed, err := ledger.Expand(batch, in.Multiplier)
	if err != nil {
		return nil, err
	}

	out := &dto.ApplyBatchResponse{
		BatchID:    batch.ID,
		BatchName:  batch.Name,
		Multiplier: in.Multiplier,
		Entries:    make([]dto.ProposedEntryResponse, 0, len(proposed)),
	}
	for _, p := range proposed {
		item, err := uc.items.GetByID(ctx, p.MaterialID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.Class != entity.ClassMaterial {
			if in.Tolerant {
				out.Skipped = append(out.Skipped, p.MaterialID)
				continue
			}
			return nil, domain.NotFound("materia prima", p.MaterialID)
		}
		out.Entries = append(out.Entries, dto.ProposedEntryResponse{MaterialID: item.ID, MaterialName: item.Name, StockOut: p.StockOut})
	}
	return out, nil
}

// Consume aplica la receta y registra las salidas como una carga masiva de materias primas.
func (uc *BatchUseCase) Consume(ctx context.Context, actor entity.Actor, id string, in dto.ConsumeBatchRequest) (*dto.BulkSubmitResponse, error) {
	applied, err := uc.Apply(ctx, id, dto.ApplyBatchRequest{Multiplier: in.Multiplier})
	if err != nil {
		return nil, err
	}
	notes := fmt.Sprintf("batch %s x%s", applied.BatchName, in.Multiplier.String())
	entries := make([]dto.BulkEntryLine, 0, len(applied.Entries))
	for _, e := range applied.Entries {
		entries = append(entries, dto.BulkEntryLine{ItemID: e.MaterialID, StockOut: e.StockOut, Notes: notes})
	}
	return uc.stock.BulkSubmit(ctx, actor, dto.BulkEntryRequest{
		Date:    in.Date,
		Class:   string(entity.ClassMaterial),
		Entries: entries,
	})
}

func (uc *BatchUseCase) materialNames(ctx context.Context) (map[string]string, error) {
	materials, err := uc.items.List(ctx, entity.ClassMaterial)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(materials))
	for _, m := range materials {
		names[m.ID] = m.Name
	}
	return names, nil
}

func toBatchResponse(b *entity.BatchRecipe, names map[string]string) *dto.BatchResponse {
	lines := make([]dto.BatchLineResponse, 0, len(b.Lines))
	for _, l := range b.Lines {
		name, ok := names[l.MaterialID]
		lines = append(lines, dto.BatchLineResponse{
			MaterialID:   l.MaterialID,
			MaterialName: name,
			Qty:          l.Quantity,
			Missing:      !ok,
		})
	}
	return &dto.BatchResponse{ID: b.ID, Name: b.Name, Items: lines, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
}
