package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// ItemHandler catálogo de productos y materias primas, ajustes de stock y tablero.
type ItemHandler struct {
	catalog *inventory.CatalogUseCase
	stock   *inventory.StockUseCase
	errs    errorMapper
}

// NewItemHandler construye el handler.
func NewItemHandler(catalog *inventory.CatalogUseCase, stock *inventory.StockUseCase, errs errorMapper) *ItemHandler {
	return &ItemHandler{catalog: catalog, stock: stock, errs: errs}
}

// Create godoc
// @Summary      Crear ítem
// @Description  Una cantidad inicial > 0 queda registrada como entrada en el ledger.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Referencia de operación"
// @Param        body  body  dto.CreateItemRequest  true  "class, name, quantity, unit, unit_price, reorder_level"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := parseBody(c, &in); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.catalog.Create(opContext(c), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar ítem
// @Description  Un cambio de quantity se registra como movimiento de entrada o salida.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := parseBody(c, &in); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.catalog.Update(opContext(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem y su historial
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID del ítem"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.Delete(opContext(c), GetActor(c), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.catalog.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar o buscar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        class  query  string  false  "product | material"
// @Param        q      query  string  false  "texto a buscar en nombre o id"
// @Success      200  {object}  dto.ItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.catalog.List(c.UserContext(), c.Query("class"), c.Query("q"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Ítems en o bajo su nivel de reorden
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        class  query  string  false  "product | material"
// @Success      200  {object}  dto.LowStockListResponse
// @Router       /api/items/low-stock [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.catalog.LowStock(c.UserContext(), c.Query("class"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// LowStockReport godoc
// @Summary      Reporte PDF de stock bajo
// @Tags         items
// @Security     Bearer
// @Produce      application/pdf
// @Param        class  query  string  false  "product | material"
// @Success      200  {file}  binary
// @Router       /api/items/low-stock/report [get]
func (h *ItemHandler) LowStockReport(c *fiber.Ctx) error {
	pdf, err := h.catalog.LowStockReport(c.UserContext(), c.Query("class"))
	if err != nil {
		return h.errs.write(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="stock-bajo.pdf"`)
	return c.Send(pdf)
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  direction=add registra una entrada; remove una salida (rechazada si el saldo quedaría negativo).
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Referencia de operación"
// @Param        id    path  string                  true  "ID del ítem"
// @Param        body  body  dto.AdjustStockRequest  true  "amount, direction, notes"
// @Success      201   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/adjust [post]
func (h *ItemHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := parseBody(c, &in); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.stock.Adjust(opContext(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Dashboard godoc
// @Summary      Tablero de inventario
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *ItemHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.catalog.Dashboard(c.UserContext())
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
