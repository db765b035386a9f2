package ledger

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateLines reglas de una receta: al menos una línea, cantidades > 0 y sin materiales repetidos.
func ValidateLines(lines []entity.BatchLine) error {
	if len(lines) == 0 {
		return domain.Validation("items", "la receta necesita al menos un material")
	}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.MaterialID == "" {
			return domain.Validation("items.material_id", "material requerido")
		}
		if !l.Quantity.IsPositive() {
			return &domain.Error{Kind: domain.ErrInvalidInput, ItemID: l.MaterialID, Field: "items.qty", Message: "la cantidad debe ser mayor que 0"}
		}
		if _, dup := seen[l.MaterialID]; dup {
			return &domain.Error{Kind: domain.ErrInvalidInput, ItemID: l.MaterialID, Field: "items.material_id", Message: "material repetido en la receta"}
		}
		seen[l.MaterialID] = struct{}{}
	}
	return nil
}

// Expand multiplica cada línea por multiplier y redondea a la precisión de materiales.
// Función pura: no toca la receta ni comparte estado entre llamadas.
func Expand(recipe *entity.BatchRecipe, multiplier decimal.Decimal) ([]entity.ProposedEntry, error) {
	if !multiplier.IsPositive() {
		return nil, domain.Validation("multiplier", "el multiplicador debe ser mayor que 0")
	}
	out := make([]entity.ProposedEntry, 0, len(recipe.Lines))
	for _, l := range recipe.Lines {
		out = append(out, entity.ProposedEntry{
			MaterialID: l.MaterialID,
			StockOut:   entity.MaterialPrecision.Round(l.Quantity.Mul(multiplier)),
		})
	}
	return out, nil
}
