package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/items/:id/adjust.
type AdjustStockRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction" validate:"required,oneof=add remove"`
	Notes     string          `json:"notes" validate:"max=500"`
}

// BulkEntryLine una fila del formulario de carga masiva.
type BulkEntryLine struct {
	ItemID   string          `json:"item_id" validate:"required"`
	StockIn  decimal.Decimal `json:"stock_in"`
	StockOut decimal.Decimal `json:"stock_out"`
	Returns  decimal.Decimal `json:"returns"`
	Notes    string          `json:"notes" validate:"max=500"`
}

// BulkEntryRequest body para POST /api/logs/bulk. Date: YYYY-MM-DD o RFC3339.
type BulkEntryRequest struct {
	Date    string          `json:"date" validate:"required"`
	Class   string          `json:"class" validate:"required,oneof=product material"`
	Entries []BulkEntryLine `json:"entries" validate:"required,min=1,dive"`
}

// EditLogRequest body para PUT /api/logs/:id.
type EditLogRequest struct {
	Date     string          `json:"date" validate:"required"`
	StockIn  decimal.Decimal `json:"stock_in"`
	StockOut decimal.Decimal `json:"stock_out"`
	Returns  decimal.Decimal `json:"returns"`
	Notes    string          `json:"notes" validate:"max=500"`
}

// ListLogsRequest filtros de GET /api/logs.
type ListLogsRequest struct {
	Class  string `query:"class" validate:"omitempty,oneof=product material"`
	ItemID string `query:"item_id"`
	From   string `query:"from"`
	To     string `query:"to"`
	Limit  int    `query:"limit" validate:"min=0,max=500"`
	Offset int    `query:"offset" validate:"min=0"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name,omitempty"`
	ItemClass    string          `json:"item_class"`
	Date         time.Time       `json:"date"`
	StockIn      decimal.Decimal `json:"stock_in"`
	StockOut     decimal.Decimal `json:"stock_out"`
	Returns      decimal.Decimal `json:"returns"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Notes        string          `json:"notes"`
	User         string          `json:"user"`
}

// StockChangeResponse movimiento creado o editado y estado nuevo del ítem.
type StockChangeResponse struct {
	Movement MovementResponse `json:"movement"`
	Item     ItemResponse     `json:"item"`
}

// BulkSubmitResponse movimientos guardados por la carga masiva.
type BulkSubmitResponse struct {
	Saved     int                `json:"saved"`
	Movements []MovementResponse `json:"movements"`
}

// LogListResponse listado paginado de movimientos.
type LogListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
