package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// LogHandler movimientos del ledger: carga masiva, listado, edición y borrado.
type LogHandler struct {
	stock *inventory.StockUseCase
	logs  *inventory.LogUseCase
	errs  errorMapper
}

// NewLogHandler construye el handler.
func NewLogHandler(stock *inventory.StockUseCase, logs *inventory.LogUseCase, errs errorMapper) *LogHandler {
	return &LogHandler{stock: stock, logs: logs, errs: errs}
}

// BulkSubmit godoc
// @Summary      Carga masiva de movimientos
// @Description  Todo o nada: si una fila falla no se guarda ninguna. Las filas en cero se ignoran.
// @Tags         logs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Referencia de operación"
// @Param        body  body  dto.BulkEntryRequest  true  "date, class, entries"
// @Success      201   {object}  dto.BulkSubmitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/logs/bulk [post]
func (h *LogHandler) BulkSubmit(c *fiber.Ctx) error {
	var in dto.BulkEntryRequest
	if err := parseBody(c, &in); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.stock.BulkSubmit(opContext(c), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        class    query  string  false  "product | material"
// @Param        item_id  query  string  false  "ID del ítem"
// @Param        from     query  string  false  "YYYY-MM-DD"
// @Param        to       query  string  false  "YYYY-MM-DD"
// @Param        limit    query  int     false  "máx. 500, por defecto 50"
// @Param        offset   query  int     false  "desplazamiento"
// @Success      200  {object}  dto.LogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/logs [get]
func (h *LogHandler) List(c *fiber.Ctx) error {
	var in dto.ListLogsRequest
	if err := parseQuery(c, &in); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.logs.List(c.UserContext(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Edit godoc
// @Summary      Editar movimiento
// @Description  Reproduce los saldos posteriores; se rechaza si alguno quedaría negativo.
// @Tags         logs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del movimiento"
// @Param        body  body  dto.EditLogRequest  true  "date, stock_in, stock_out, returns, notes"
// @Success      200   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/logs/{id} [put]
func (h *LogHandler) Edit(c *fiber.Ctx) error {
	var in dto.EditLogRequest
	if err := parseBody(c, &in); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.logs.Edit(opContext(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.ItemResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/logs/{id} [delete]
func (h *LogHandler) Delete(c *fiber.Ctx) error {
	out, err := h.logs.Delete(opContext(c), GetActor(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
