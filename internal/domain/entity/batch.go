package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchRecipe receta reutilizable: lista ordenada de (materia prima, cantidad) a consumir.
// Los MaterialID son referencias débiles; el material puede eliminarse después.
type BatchRecipe struct {
	ID        string
	Name      string
	Lines     []BatchLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BatchLine línea de la receta.
type BatchLine struct {
	MaterialID string
	Quantity   decimal.Decimal
}

// ProposedEntry salida propuesta al aplicar una receta con un multiplicador.
type ProposedEntry struct {
	MaterialID string
	StockOut   decimal.Decimal
}
