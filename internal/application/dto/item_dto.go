package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un producto o materia prima.
// Una cantidad inicial > 0 se registra como movimiento de entrada implícito.
type CreateItemRequest struct {
	Class        string           `json:"class" validate:"required,oneof=product material"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Unit         string           `json:"unit" validate:"max=20"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
}

// UpdateItemRequest actualización parcial. Quantity, si viene, se traduce en un movimiento implícito.
type UpdateItemRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit         *string          `json:"unit" validate:"omitempty,max=20"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
	Quantity     *decimal.Decimal `json:"quantity"`
}

// ItemResponse salida de un ítem con su estado de stock derivado.
type ItemResponse struct {
	ID           string          `json:"id"`
	Class        string          `json:"class"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Status       string          `json:"status"`
	LowStock     bool            `json:"low_stock"`
	LastUpdated  time.Time       `json:"last_updated"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemListResponse listado de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// LowStockItemResponse ítem en o bajo su nivel de reorden con el faltante calculado.
type LowStockItemResponse struct {
	ItemResponse
	Shortage decimal.Decimal `json:"shortage"`
}

// LowStockListResponse listado de stock bajo.
type LowStockListResponse struct {
	Items []LowStockItemResponse `json:"items"`
	Total int                    `json:"total"`
}

// ClassStats indicadores del tablero por clase.
type ClassStats struct {
	Count      int             `json:"count"`
	LowStock   int             `json:"low_stock"`
	StockValue decimal.Decimal `json:"stock_value"`
}

// DashboardResponse tablero: conteos, stock bajo y valor del inventario por clase.
type DashboardResponse struct {
	Products      ClassStats `json:"products"`
	Materials     ClassStats `json:"materials"`
	LowStockCount int        `json:"low_stock_count"`
}
