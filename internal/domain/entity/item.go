package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// ItemClass distingue productos (unidades enteras) de materias primas (fraccionarias).
type ItemClass string

const (
	ClassProduct  ItemClass = "product"
	ClassMaterial ItemClass = "material"
)

// DefaultReorderLevel umbral de stock bajo cuando no se indica otro.
var DefaultReorderLevel = decimal.NewFromInt(10)

// Valid indica si la clase es conocida.
func (c ItemClass) Valid() bool {
	return c == ClassProduct || c == ClassMaterial
}

// Precision devuelve la política numérica de la clase.
func (c ItemClass) Precision() Precision {
	if c == ClassMaterial {
		return MaterialPrecision
	}
	return ProductPrecision
}

// DefaultUnit unidad por defecto de la clase.
func (c ItemClass) DefaultUnit() string {
	if c == ClassMaterial {
		return "kg"
	}
	return "pcs"
}

// Precision número de decimales con que se guardan las cantidades de una clase.
type Precision int32

const (
	ProductPrecision  Precision = 0
	MaterialPrecision Precision = 3
)

// Round redondea d a la precisión (half away from zero).
func (p Precision) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(int32(p))
}

// Fits indica si d se representa sin pérdida en la precisión.
func (p Precision) Fits(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(int32(p)))
}

// Format representación fija (0 decimales para productos, 3 para materiales).
func (p Precision) Format(d decimal.Decimal) string {
	return d.StringFixed(int32(p))
}

// StockStatus estado derivado de cantidad vs. nivel de reorden.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// Item registro del catálogo (producto o materia prima). Quantity solo cambia vía movimientos.
type Item struct {
	ID           string
	Class        ItemClass
	Name         string
	Unit         string
	UnitPrice    decimal.Decimal
	Quantity     decimal.Decimal
	ReorderLevel decimal.Decimal
	LastUpdated  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock quantity <= reorderLevel.
func (i *Item) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.ReorderLevel)
}

// Status OutOfStock si la cantidad es 0, LowStock si está en o bajo el nivel de reorden.
func (i *Item) Status() StockStatus {
	switch {
	case i.Quantity.IsZero():
		return StatusOutOfStock
	case i.IsLowStock():
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Shortage cuánto falta para llegar al nivel de reorden (nunca negativo).
func (i *Item) Shortage() decimal.Decimal {
	s := i.ReorderLevel.Sub(i.Quantity)
	if s.IsNegative() {
		return decimal.Zero
	}
	return s
}

// Value valor del stock a precio unitario.
func (i *Item) Value() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Matches búsqueda sin distinguir mayúsculas sobre nombre o id.
// cases.Caser no es seguro entre goroutines, por eso se crea por llamada.
func (i *Item) Matches(query string) bool {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(fold.String(i.Name), q) || strings.Contains(fold.String(i.ID), q)
}
