package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestItemStatus(t *testing.T) {
	item := &Item{Quantity: decimal.NewFromInt(3), ReorderLevel: decimal.NewFromInt(5)}
	assert.Equal(t, StatusLowStock, item.Status())
	assert.True(t, item.Shortage().Equal(decimal.NewFromInt(2)))

	item.Quantity = decimal.Zero
	assert.Equal(t, StatusOutOfStock, item.Status())

	item.Quantity = decimal.NewFromInt(5)
	assert.Equal(t, StatusLowStock, item.Status(), "en el nivel de reorden también es stock bajo")

	item.Quantity = decimal.NewFromInt(6)
	assert.Equal(t, StatusInStock, item.Status())
	assert.True(t, item.Shortage().IsZero())
}

func TestPrecision(t *testing.T) {
	assert.True(t, ProductPrecision.Fits(decimal.NewFromInt(4)))
	assert.False(t, ProductPrecision.Fits(decimal.RequireFromString("4.5")))
	assert.Equal(t, "1.235", MaterialPrecision.Format(MaterialPrecision.Round(decimal.RequireFromString("1.2345"))))
	assert.Equal(t, "kg", ClassMaterial.DefaultUnit())
	assert.Equal(t, "pcs", ClassProduct.DefaultUnit())
	assert.False(t, ItemClass("tool").Valid())
}

func TestItemMatches(t *testing.T) {
	item := &Item{ID: "a1b2-CAFE", Name: "Harina Integral"}
	assert.True(t, item.Matches("harina"))
	assert.True(t, item.Matches("INTEGRAL"))
	assert.True(t, item.Matches("cafe"))
	assert.True(t, item.Matches("  "))
	assert.False(t, item.Matches("azúcar"))
}
