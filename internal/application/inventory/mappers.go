package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:           i.ID,
		Class:        string(i.Class),
		Name:         i.Name,
		Unit:         i.Unit,
		UnitPrice:    i.UnitPrice,
		Quantity:     i.Quantity,
		ReorderLevel: i.ReorderLevel,
		Status:       string(i.Status()),
		LowStock:     i.IsLowStock(),
		LastUpdated:  i.LastUpdated,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func toItemList(list []*entity.Item) *dto.ItemListResponse {
	items := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *toItemResponse(i))
	}
	return &dto.ItemListResponse{Items: items, Total: len(items)}
}

func toMovementResponse(m *entity.Movement, itemName string) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ItemID:       m.ItemID,
		ItemName:     itemName,
		ItemClass:    string(m.ItemClass),
		Date:         m.Date,
		StockIn:      m.StockIn,
		StockOut:     m.StockOut,
		Returns:      m.Returns,
		BalanceAfter: m.BalanceAfter,
		Notes:        m.Notes,
		User:         m.User,
	}
}
