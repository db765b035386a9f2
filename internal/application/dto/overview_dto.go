package dto

import "github.com/shopspring/decimal"

// ClassTotals totales de entradas, salidas y devoluciones.
type ClassTotals struct {
	In     decimal.Decimal `json:"in"`
	Out    decimal.Decimal `json:"out"`
	Return decimal.Decimal `json:"return"`
}

// ItemTotals totales de un ítem en el rango.
type ItemTotals struct {
	ItemID string          `json:"item_id"`
	Name   string          `json:"name"`
	In     decimal.Decimal `json:"in"`
	Out    decimal.Decimal `json:"out"`
	Return decimal.Decimal `json:"return"`
}

// OverviewResponse resumen de movimientos por clase y por ítem en un rango de fechas.
type OverviewResponse struct {
	Start           string       `json:"start"`
	End             string       `json:"end"`
	ProductSummary  ClassTotals  `json:"product_summary"`
	MaterialSummary ClassTotals  `json:"material_summary"`
	ProductDetails  []ItemTotals `json:"product_details"`
	MaterialDetails []ItemTotals `json:"material_details"`
}
