package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchLineRequest línea (material, cantidad) de una receta.
type BatchLineRequest struct {
	MaterialID string          `json:"material_id" validate:"required"`
	Qty        decimal.Decimal `json:"qty"`
}

// SaveBatchRequest body para POST /api/batches y PUT /api/batches/:id.
type SaveBatchRequest struct {
	ID    string             `json:"id"`
	Name  string             `json:"name" validate:"required,min=1,max=120"`
	Items []BatchLineRequest `json:"items" validate:"required,min=1,dive"`
}

// BatchLineResponse línea con el nombre del material si todavía existe.
type BatchLineResponse struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name,omitempty"`
	Qty          decimal.Decimal `json:"qty"`
	Missing      bool            `json:"missing,omitempty"`
}

// BatchResponse salida de una receta.
type BatchResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Items     []BatchLineResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ApplyBatchRequest body para POST /api/batches/:id/apply.
// Tolerant omite (y reporta) las líneas cuyo material ya no existe en vez de fallar.
type ApplyBatchRequest struct {
	Multiplier decimal.Decimal `json:"multiplier"`
	Tolerant   bool            `json:"tolerant"`
}

// ProposedEntryResponse salida propuesta para un material.
type ProposedEntryResponse struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name,omitempty"`
	StockOut     decimal.Decimal `json:"stock_out"`
}

// ApplyBatchResponse resultado puro de aplicar la receta (no crea movimientos).
type ApplyBatchResponse struct {
	BatchID    string                  `json:"batch_id"`
	BatchName  string                  `json:"batch_name"`
	Multiplier decimal.Decimal         `json:"multiplier"`
	Entries    []ProposedEntryResponse `json:"entries"`
	Skipped    []string                `json:"skipped,omitempty"`
}

// ConsumeBatchRequest body para POST /api/batches/:id/consume: aplica y registra las salidas.
type ConsumeBatchRequest struct {
	Multiplier decimal.Decimal `json:"multiplier"`
	Date       string          `json:"date" validate:"required"`
}
