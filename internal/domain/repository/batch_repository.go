package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para recetas de batch.
type BatchRepository interface {
	// Save crea o reemplaza la receta y sus líneas.
	Save(ctx context.Context, batch *entity.BatchRecipe) error
	GetByID(ctx context.Context, id string) (*entity.BatchRecipe, error)
	List(ctx context.Context) ([]*entity.BatchRecipe, error)
	Delete(ctx context.Context, id string) error
}
